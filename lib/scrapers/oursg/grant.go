package oursg

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	FieldId      = "id"
	FieldName    = "name"
	FieldStatus  = "status"
	FieldValue   = "value"
	FieldDetails = "grants_details"
)

// StatusOpen is the listing status of grants that are currently accepting
// applications.
const StatusOpen = "green"

var ErrMissingGrantMetadata = errors.New("listing response has no grant_metadata")

// FieldError is returned when a grant does not have a field, or it has the
// wrong type.
type FieldError struct {
	Field   string
	Missing bool
	Got     any
}

func (e *FieldError) Error() string {
	if e.Missing {
		return fmt.Sprintf("grant field %q is missing", e.Field)
	}
	return fmt.Sprintf("grant field %q is not a string (got %T)", e.Field, e.Got)
}

// Grant is a single entry of the grant listing. Fields are kept as decoded so
// that everything the api returns survives into the output, numbers are
// decoded as json.Number to keep their exact representation.
type Grant map[string]any

func (g Grant) String(field string) (string, error) {
	v, ok := g[field]
	if !ok {
		return "", &FieldError{Field: field, Missing: true}
	}
	str, ok := v.(string)
	if !ok {
		return "", &FieldError{Field: field, Got: v}
	}
	return str, nil
}

// StringOr is String but it returns `fallback` instead of failing.
func (g Grant) StringOr(field, fallback string) string {
	str, err := g.String(field)
	if err != nil {
		return fallback
	}
	return str
}

func (g Grant) Status() (string, error) {
	return g.String(FieldStatus)
}

func (g Grant) Value() (string, error) {
	return g.String(FieldValue)
}

func (g Grant) Name() (string, error) {
	return g.String(FieldName)
}

// Id returns the listing id of the grant, which the api sends either
// as a string or a number.
func (g Grant) Id() (string, error) {
	v, ok := g[FieldId]
	if !ok || v == nil {
		return "", &FieldError{Field: FieldId, Missing: true}
	}
	switch id := v.(type) {
	case string:
		return id, nil
	case json.Number:
		return id.String(), nil
	}
	return "", &FieldError{Field: FieldId, Got: v}
}

// IsOpen reports whether status is exactly "green". Only a missing status is
// an error; a null or non-string status is not open.
func (g Grant) IsOpen() (bool, error) {
	status, err := g.Status()
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) && !fieldErr.Missing {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status == StatusOpen, nil
}

func (g Grant) SetDetails(details any) {
	g[FieldDetails] = details
}

// Details returns the detail record attached by the enricher, if it is an object.
func (g Grant) Details() (map[string]any, bool) {
	details, ok := g[FieldDetails].(map[string]any)
	return details, ok
}

func newDecoder(r io.Reader) *json.Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec
}

func decodeAll(body []byte, out any) error {
	dec := newDecoder(bytes.NewReader(body))
	err := dec.Decode(out)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after top-level json value")
	}
	return nil
}

type listingResponse struct {
	GrantMetadata *[]Grant `json:"grant_metadata"`
}

// DecodeListing decodes the body of the explore_grants endpoint.
func DecodeListing(body []byte) ([]Grant, error) {
	var res listingResponse
	err := decodeAll(body, &res)
	if err != nil {
		return nil, fmt.Errorf("decode grant listing: %w", err)
	}
	if res.GrantMetadata == nil {
		return nil, ErrMissingGrantMetadata
	}
	grants := *res.GrantMetadata
	for i, g := range grants {
		if g == nil {
			return nil, fmt.Errorf("decode grant listing: entry %d is null", i)
		}
	}
	return grants, nil
}

// DecodeDetails decodes the body of the grant_instruction endpoint, the
// result is whatever json value the api returned.
func DecodeDetails(body []byte) (any, error) {
	var details any
	err := decodeAll(body, &details)
	if err != nil {
		return nil, fmt.Errorf("decode grant details: %w", err)
	}
	return details, nil
}

// DecodeGrants reads a json array of grants, the format written by EncodeGrants.
func DecodeGrants(r io.Reader) ([]Grant, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var grants []Grant
	err = decodeAll(body, &grants)
	if err != nil {
		return nil, fmt.Errorf("decode grants: %w", err)
	}
	return grants, nil
}

// EncodeGrants writes grants as a json array indented by 4 spaces and
// followed by a newline. HTML is not escaped since detail records carry raw
// guideline html.
func EncodeGrants(w io.Writer, grants []Grant) error {
	if grants == nil {
		grants = []Grant{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(grants)
}
