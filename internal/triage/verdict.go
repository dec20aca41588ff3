package triage

import (
	"encoding/json"
	"strings"
)

// DecodeVerdict parses a raw model reply into a Verdict. The reply must be a
// JSON object with a boolean "needsHumanAttention" and a non-empty string
// "reason". Extra fields are ignored. Nothing is repaired.
func DecodeVerdict(raw string) (Verdict, error) {
	fail := func(reason string) (Verdict, error) {
		return Verdict{}, &SchemaValidationError{Raw: raw, Reason: reason}
	}

	if strings.TrimSpace(raw) == "" {
		return fail("empty reply")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return fail("not a JSON object: " + err.Error())
	}

	needs, ok := obj["needsHumanAttention"]
	if !ok {
		return fail(`missing field "needsHumanAttention"`)
	}
	reason, ok := obj["reason"]
	if !ok {
		return fail(`missing field "reason"`)
	}

	// json.Unmarshal into bool/string accepts null, so check it first
	var v Verdict
	if isNull(needs) || json.Unmarshal(needs, &v.NeedsHumanAttention) != nil {
		return fail(`field "needsHumanAttention" is not a boolean`)
	}
	if isNull(reason) || json.Unmarshal(reason, &v.Reason) != nil {
		return fail(`field "reason" is not a string`)
	}
	if strings.TrimSpace(v.Reason) == "" {
		return fail(`field "reason" is empty`)
	}

	return v, nil
}

func isNull(m json.RawMessage) bool {
	return strings.TrimSpace(string(m)) == "null"
}
