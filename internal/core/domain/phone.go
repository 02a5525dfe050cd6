package domain

import "strings"

const northAmericaPrefix = "+1"

// PhoneVariants returns the stored forms a contact phone may have been saved
// under. The input itself always comes first. For "+1" numbers the bare
// national number is added, and when that is exactly ten characters the
// hyphenated AAA-BBB-CCCC form as well.
//
//	"+15551234567" -> ["+15551234567", "5551234567", "555-123-4567"]
func PhoneVariants(phone string) []string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	out := []string{phone}
	if !strings.HasPrefix(phone, northAmericaPrefix) {
		return out
	}
	national := strings.TrimSpace(strings.TrimPrefix(phone, northAmericaPrefix))
	if national == "" {
		return out
	}
	out = append(out, national)
	if len(national) == 10 {
		out = append(out, national[:3]+"-"+national[3:6]+"-"+national[6:])
	}
	return out
}
