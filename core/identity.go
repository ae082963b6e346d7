package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Namespace identifies which identity scheme produced a record key.
type Namespace int

const (
	// NamespaceNumeric is the sequential numbering carried by mail digests.
	NamespaceNumeric Namespace = iota + 1
	// NamespaceExternal is a source-assigned identifier, normally rendered
	// with a short source prefix ("x-12345").
	NamespaceExternal
)

// prefixedForm matches a source prefix followed by a source-assigned id.
var prefixedForm = regexp.MustCompile(`^([a-z]{1,8})-([0-9]+)$`)

// Identity is the namespace-aware key of a Record.
//
// Two namespaces exist: numeric identities ("737") assigned by the mail
// digest numbering, and external identities ("x-12345") built from a source
// prefix plus the id the source assigned. Historical collections carried
// external ids without their prefix, so an external identity answers to
// both its prefixed and its bare raw form. Collision checks must go through
// Collides, never through ==.
type Identity struct {
	ns     Namespace
	number int64
	source string
	raw    string
}

// NumericIdentity returns the identity for a sequential play number.
func NumericIdentity(n int64) Identity {
	return Identity{ns: NamespaceNumeric, number: n}
}

// ExternalIdentity returns the identity for a source-assigned id.
// The source prefix may be empty for legacy unprefixed entries.
func ExternalIdentity(source, raw string) Identity {
	return Identity{ns: NamespaceExternal, source: source, raw: raw}
}

// ParseIdentity parses the canonical string form of an identity.
//
// All-digit strings parse as numeric identities. Prefixed strings
// ("x-12345") parse as external identities. Anything else is kept verbatim
// as an unprefixed external identity so that legacy collections load
// without loss.
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Identity{}, fmt.Errorf("%w: empty", ErrInvalidIdentity)
	}

	if isAllDigits(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return NumericIdentity(n), nil
		}
		// Out of int64 range; fall through to the verbatim form.
	}

	if m := prefixedForm.FindStringSubmatch(s); m != nil {
		return ExternalIdentity(m[1], m[2]), nil
	}

	return ExternalIdentity("", s), nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Namespace returns which identity scheme this identity belongs to.
func (id Identity) Namespace() Namespace {
	return id.ns
}

// IsZero reports whether the identity is unset.
func (id Identity) IsZero() bool {
	return id.ns == 0
}

// String returns the canonical form: the decimal number for numeric
// identities, "<source>-<raw>" for prefixed external identities, and the
// bare raw id for unprefixed ones.
func (id Identity) String() string {
	switch id.ns {
	case NamespaceNumeric:
		return strconv.FormatInt(id.number, 10)
	case NamespaceExternal:
		if id.source == "" {
			return id.raw
		}
		return id.source + "-" + id.raw
	default:
		return ""
	}
}

// Keys returns every string form this identity answers to. Prefixed
// external identities answer to both the prefixed and the bare raw form.
func (id Identity) Keys() []string {
	switch id.ns {
	case NamespaceNumeric:
		return []string{strconv.FormatInt(id.number, 10)}
	case NamespaceExternal:
		if id.source == "" {
			return []string{id.raw}
		}
		return []string{id.source + "-" + id.raw, id.raw}
	default:
		return nil
	}
}

// Collides reports whether two identities share any key form. A prefixed
// external identity collides with the numeric or legacy identity spelled
// like its raw id.
func (id Identity) Collides(other Identity) bool {
	for _, a := range id.Keys() {
		for _, b := range other.Keys() {
			if a == b {
				return true
			}
		}
	}
	return false
}

// sortTier buckets identities for the collection ordering: numeric
// identities first, prefixed external identities with numeric raw ids
// second, everything else last.
func (id Identity) sortTier() int {
	switch {
	case id.ns == NamespaceNumeric:
		return 0
	case id.ns == NamespaceExternal && id.source != "":
		if _, ok := id.rawNumber(); ok {
			return 1
		}
		return 2
	default:
		return 2
	}
}

func (id Identity) rawNumber() (int64, bool) {
	if !isAllDigits(id.raw) {
		return 0, false
	}
	n, err := strconv.ParseInt(id.raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CompareIdentities orders identities for the persisted document: tier by
// namespace, then newest-first within the numeric tiers, then string order
// for the rest. The result is a strict total order over distinct
// identities, so a saved collection always serializes the same way.
func CompareIdentities(a, b Identity) int {
	at, bt := a.sortTier(), b.sortTier()
	if at != bt {
		if at < bt {
			return -1
		}
		return 1
	}

	switch at {
	case 0:
		return compareInt64Desc(a.number, b.number)
	case 1:
		an, _ := a.rawNumber()
		bn, _ := b.rawNumber()
		return compareInt64Desc(an, bn)
	default:
		return strings.Compare(a.String(), b.String())
	}
}

func compareInt64Desc(a, b int64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// MarshalJSON renders the canonical string form.
func (id Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON accepts either a JSON string or a bare JSON number.
// Early collection documents stored numeric identities as numbers.
func (id *Identity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n json.Number
		if numErr := json.Unmarshal(data, &n); numErr != nil {
			return fmt.Errorf("%w: %s", ErrInvalidIdentity, string(data))
		}
		s = n.String()
	}

	parsed, err := ParseIdentity(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
