package decoder

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gorilla/schema"
)

type URLDecoder struct {
	dec *schema.Decoder
}

// New returns a query string decoder that reads `schema` struct tags and ignores
// parameters the target struct doesn't declare (pagination, cache busters and so on).
func New() *URLDecoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	dec.SetAliasTag("schema")
	return &URLDecoder{dec: dec}
}

// Decode fills dst from src. Conversion failures are reported per field.
func (d *URLDecoder) Decode(dst any, src url.Values) map[string]string {
	err := d.dec.Decode(dst, src)
	if err == nil {
		return nil
	}
	fieldErrs := make(map[string]string)
	var multiErr schema.MultiError
	if errors.As(err, &multiErr) {
		for key, e := range multiErr {
			var convErr schema.ConversionError
			if errors.As(e, &convErr) {
				fieldErrs[convErr.Key] = fmt.Sprintf("Value must be of type %s", convErr.Type)
				continue
			}
			fieldErrs[key] = e.Error()
		}
		return fieldErrs
	}
	fieldErrs["query"] = err.Error()
	return fieldErrs
}
