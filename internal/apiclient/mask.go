package apiclient

import (
	"encoding/json"
	"strings"
)

var (
	emailKeys = map[string]bool{"email": true, "payer_email": true}
	phoneKeys = map[string]bool{"phone": true, "mobile_number": true, "whatsapp_contact": true}
)

// maskSensitiveFields hides customer emails and phone numbers in a JSON body
// before it is logged. Bodies that are not JSON objects are returned unchanged.
func maskSensitiveFields(body []byte) []byte {
	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		return body
	}
	maskMap(req)
	masked, err := json.Marshal(req)
	if err != nil {
		return body
	}
	return masked
}

func maskMap(m map[string]any) {
	for k, v := range m {
		switch val := v.(type) {
		case string:
			switch {
			case emailKeys[k]:
				m[k] = maskEmail(val)
			case phoneKeys[k]:
				m[k] = maskPhone(val)
			}
		case map[string]any:
			maskMap(val)
		}
	}
}

func maskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "****"
	}
	if len(local) > 3 {
		local = local[:3]
	}
	return local + "****@" + domain
}

func maskPhone(phone string) string {
	if len(phone) > 4 {
		return "****" + phone[len(phone)-4:]
	}
	return "****"
}
