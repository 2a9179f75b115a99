package discovery

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"errors"
	"net/url"
	"time"

	"github.com/nlowe/hadiscovery/mqtt"
)

// Marshalers contains json.Marshalers for types from the standard library to make them conform to the Home Assistant
// MQTT Discovery schema (e.g. render URLs as strings).
var Marshalers = json.JoinMarshalers(
	// Marshal URLs as their string representation
	json.MarshalToFunc[*url.URL](func(e *jsontext.Encoder, u *url.URL) error {
		if u == nil {
			return e.WriteToken(jsontext.Null)
		}

		return e.WriteToken(jsontext.String(u.String()))
	}),
	// Marshal durations as integer seconds
	json.MarshalToFunc[time.Duration](func(e *jsontext.Encoder, t time.Duration) error {
		return e.WriteToken(jsontext.Int(int64(t.Seconds())))
	}),
)

// MarshalString encodes the key and string value unconditionally, even if v is empty.
func MarshalString(e *jsontext.Encoder, k string, v string) error {
	return errors.Join(
		e.WriteToken(jsontext.String(k)),
		e.WriteToken(jsontext.String(v)),
	)
}

// MaybeMarshalString encodes the key and string value if v is not empty.
func MaybeMarshalString(e *jsontext.Encoder, k string, v string) error {
	if v == "" {
		return nil
	}

	return MarshalString(e, k, v)
}

// MarshalFloat encodes the key and number value unconditionally.
func MarshalFloat(e *jsontext.Encoder, k string, v float64) error {
	return errors.Join(
		e.WriteToken(jsontext.String(k)),
		e.WriteToken(jsontext.Float(v)),
	)
}

// MaybeMarshalTopic encodes the topic, prefixed with mqtt.Prefixed, if the topic string is not empty.
func MaybeMarshalTopic(e *jsontext.Encoder, k string, prefix string, topic string) error {
	return MaybeMarshalString(e, k, mqtt.Prefixed(prefix, topic))
}

// MaybeMarshalStd marshals the provided value using json.MarshalEncode with Marshalers if it is not nil.
func MaybeMarshalStd[T any](e *jsontext.Encoder, k string, v *T) error {
	if v == nil {
		return nil
	}

	return errors.Join(
		e.WriteToken(jsontext.String(k)),
		json.MarshalEncode(e, v, json.WithMarshalers(Marshalers)),
	)
}

// MaybeMarshalStdSlice marshals the provided slice of values using json.MarshalEncode with Marshalers if it is not
// empty.
func MaybeMarshalStdSlice[T any](e *jsontext.Encoder, k string, v []T) error {
	if len(v) == 0 {
		return nil
	}

	return errors.Join(
		e.WriteToken(jsontext.String(k)),
		json.MarshalEncode(e, v, json.WithMarshalers(Marshalers)),
	)
}

// MaybeMarshalStdComparable marshals the provided value using Marshalers if it is not equal to the type's zero value.
func MaybeMarshalStdComparable[T comparable](e *jsontext.Encoder, k string, v T) error {
	var defaultT T
	if v == defaultT {
		return nil
	}

	return MaybeMarshalStd(e, k, &v)
}
