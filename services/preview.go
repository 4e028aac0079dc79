package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mailflow/mailq/configs"
)

// A previewMatcher inspects a decoded JSON object and either produces a
// preview or passes. Matchers run in order, first match wins.
type previewMatcher func(body string, obj map[string]any, appConfigs *configs.AppConfigs) (string, bool)

var previewMatchers = []previewMatcher{
	emailPreview,
	typedMessagePreview,
	subjectPreview,
	jsonKeysPreview,
}

// buildPreview turns an opaque message body into a short human-readable
// summary. It is best-effort and total: any input yields some string.
func buildPreview(body string, appConfigs *configs.AppConfigs) string {
	var parsed any
	if err := json.Unmarshal([]byte(body), &parsed); err == nil {
		if obj, ok := parsed.(map[string]any); ok {
			for _, match := range previewMatchers {
				if preview, ok := match(body, obj, appConfigs); ok {
					return preview
				}
			}
		}
	}

	// plain text, or JSON that isn't an object
	return truncateWithEllipsis(body, appConfigs.MaxPreviewLength)
}

// emailPreview handles mail pipeline payloads carrying an "email" object.
// Missing nested fields fall back to placeholders rather than failing the
// match.
func emailPreview(_ string, obj map[string]any, _ *configs.AppConfigs) (string, bool) {
	rawEmail, present := obj["email"]
	if !present {
		return "", false
	}

	from := "unknown"
	subject := "(no subject)"
	if email, ok := rawEmail.(map[string]any); ok {
		if fromObj, ok := email["from"].(map[string]any); ok {
			if address, ok := fromObj["address"].(string); ok {
				from = address
			}
		}
		if s, ok := email["subject"].(string); ok {
			subject = s
		}
	}

	return fmt.Sprintf("Email from: %s, Subject: %s", from, subject), true
}

// typedMessagePreview handles event-style payloads with a type discriminator.
// The first present type field wins even when its value is not a string; a
// non-string value fails the match instead of trying the next field.
func typedMessagePreview(_ string, obj map[string]any, _ *configs.AppConfigs) (string, bool) {
	rawType, present := firstPresent(obj, "messageType", "type", "eventType")
	if !present {
		return "", false
	}
	messageType, ok := rawType.(string)
	if !ok {
		return "", false
	}

	id := ""
	if rawId, present := firstPresent(obj, "id", "messageId", "eventId"); present {
		if s, ok := rawId.(string); ok {
			id = s
		}
	}

	if id != "" {
		return fmt.Sprintf("Message type: %s, ID: %s", messageType, id), true
	}
	return fmt.Sprintf("Message type: %s", messageType), true
}

func subjectPreview(_ string, obj map[string]any, appConfigs *configs.AppConfigs) (string, bool) {
	rawSubject, present := firstPresent(obj, "subject", "description", "message")
	if !present {
		return "", false
	}
	subject, ok := rawSubject.(string)
	if !ok {
		return "", false
	}

	return fmt.Sprintf("Subject: %s", truncateWithEllipsis(subject, appConfigs.MaxSubjectPreviewLength)), true
}

// jsonKeysPreview matches any object: it lists the first few top-level keys
// in document order. The decoded map has lost that order, so the keys are
// re-read from the raw body with a token decoder.
func jsonKeysPreview(body string, _ map[string]any, appConfigs *configs.AppConfigs) (string, bool) {
	keys, err := topLevelKeys(body, appConfigs.MaxJsonKeysInPreview)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("JSON with keys: %s", strings.Join(keys, ", ")), true
}

func firstPresent(obj map[string]any, fields ...string) (any, bool) {
	for _, field := range fields {
		if value, present := obj[field]; present {
			return value, true
		}
	}
	return nil, false
}

func topLevelKeys(body string, max int) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(body))

	token, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("not a JSON object")
	}

	var keys []string
	for dec.More() && len(keys) < max {
		keyToken, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in object position", keyToken)
		}
		keys = append(keys, key)

		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func skipValue(dec *json.Decoder) error {
	token, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := token.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}

	depth := 1
	for depth > 0 {
		token, err := dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := token.(json.Delim); ok {
			switch delim {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

func truncateWithEllipsis(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
