package settings

import (
	"bytes"
	"encoding/json"
)

// MaxBrandNameLength is enforced on write; longer names are truncated,
// never rejected.
const MaxBrandNameLength = 40

// Record holds the per-shop dashboard settings.
type Record struct {
	Shop                 string `json:"shop"`
	BrandName            string `json:"brandName"`
	Accent               string `json:"accent"`
	NotifyDelay          bool   `json:"notifyDelay"`
	NotifyOutForDelivery bool   `json:"notifyOutForDelivery"`
	NotifyDelivered      bool   `json:"notifyDelivered"`
}

// Defaults describes the seed values for a freshly created record.
type Defaults struct {
	BrandName string
	Accent    string
}

// NewRecord constructs the default record for a shop. All notification
// flags start enabled.
func NewRecord(shop string, defaults Defaults) Record {
	return Record{
		Shop:                 shop,
		BrandName:            defaults.BrandName,
		Accent:               defaults.Accent,
		NotifyDelay:          true,
		NotifyOutForDelivery: true,
		NotifyDelivered:      true,
	}
}

// Update is a partial settings change. Nil fields leave the current
// value untouched.
type Update struct {
	BrandName            *string
	Accent               *string
	NotifyDelay          *bool
	NotifyOutForDelivery *bool
	NotifyDelivered      *bool
}

// rawUpdate is the wire shape of an update body. String fields that
// arrive with a non-string JSON value and flag fields parse through
// looseString/looseBool so that a malformed field degrades to "absent"
// or a truthiness coercion instead of failing the whole request.
type rawUpdate struct {
	BrandName            looseString `json:"brandName"`
	Accent               looseString `json:"accent"`
	NotifyDelay          looseBool   `json:"notifyDelay"`
	NotifyOutForDelivery looseBool   `json:"notifyOutForDelivery"`
	NotifyDelivered      looseBool   `json:"notifyDelivered"`
}

// looseString records a string value only when the JSON value actually
// is a string; any other type is treated as absent.
type looseString struct {
	value   string
	present bool
}

func (ls *looseString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	ls.value = s
	ls.present = true
	return nil
}

// looseBool coerces any JSON value by truthiness: false, 0, "" and
// null are false, everything else is true.
type looseBool struct {
	value   bool
	present bool
}

func (lb *looseBool) UnmarshalJSON(data []byte) error {
	lb.present = true
	lb.value = truthy(data)
	return nil
}

func truthy(data []byte) bool {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return false
	}
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		return false
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return false
		}
		return s != ""
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return false
		}
		return n != 0
	default:
		// true, objects, arrays
		return true
	}
}

// ParseUpdate validates a JSON body into an Update. Unknown fields are
// ignored; a field of the wrong type is dropped (strings) or coerced
// (flags). Only a body that is not a JSON object at all is an error.
func ParseUpdate(body []byte) (Update, error) {
	var raw rawUpdate
	if err := json.Unmarshal(body, &raw); err != nil {
		return Update{}, err
	}

	var update Update
	if raw.BrandName.present {
		update.BrandName = &raw.BrandName.value
	}
	if raw.Accent.present {
		update.Accent = &raw.Accent.value
	}
	if raw.NotifyDelay.present {
		update.NotifyDelay = &raw.NotifyDelay.value
	}
	if raw.NotifyOutForDelivery.present {
		update.NotifyOutForDelivery = &raw.NotifyOutForDelivery.value
	}
	if raw.NotifyDelivered.present {
		update.NotifyDelivered = &raw.NotifyDelivered.value
	}
	return update, nil
}

// Merge applies an update to a record, returning the result. Absent
// fields keep their previous value; brand names are truncated to
// MaxBrandNameLength.
func (r Record) Merge(update Update) Record {
	if update.BrandName != nil {
		name := *update.BrandName
		if runes := []rune(name); len(runes) > MaxBrandNameLength {
			name = string(runes[:MaxBrandNameLength])
		}
		r.BrandName = name
	}
	if update.Accent != nil {
		r.Accent = *update.Accent
	}
	if update.NotifyDelay != nil {
		r.NotifyDelay = *update.NotifyDelay
	}
	if update.NotifyOutForDelivery != nil {
		r.NotifyOutForDelivery = *update.NotifyOutForDelivery
	}
	if update.NotifyDelivered != nil {
		r.NotifyDelivered = *update.NotifyDelivered
	}
	return r
}
