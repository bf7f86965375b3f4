// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"strings"

	applog "audioctl/internal/log"

	ole "github.com/go-ole/go-ole"
)

// PropertyKey identifies one entry of a property store.
type PropertyKey struct {
	Fmtid ole.GUID
	Pid   uint32
}

// String returns the canonical form used as a map key, e.g.
// "{A45C254E-DF1C-4EFD-8020-67D146A850E0} 14".
func (k PropertyKey) String() string {
	return strings.ToUpper(fmt.Sprintf("%s %d", k.Fmtid.String(), k.Pid))
}

// PKeyDeviceFriendlyName is the human-readable name of an endpoint.
var PKeyDeviceFriendlyName = PropertyKey{
	Fmtid: *ole.NewGUID("{A45C254E-DF1C-4EFD-8020-67D146A850E0}"),
	Pid:   14,
}

// Blob is a binary property value.
type Blob []byte

// PropertyWarning records one store entry that could not be read.
type PropertyWarning struct {
	Owner string // id of the object owning the store
	Index int
	Key   string // empty when the key itself could not be read
	Err   error
}

func (w PropertyWarning) Error() string {
	return fmt.Sprintf("failed to read property %d from device %q: %v", w.Index, w.Owner, w.Err)
}

func (w PropertyWarning) Unwrap() error {
	return w.Err
}

// ReadProperties walks every entry of store into a map keyed by
// PropertyKey.String. A nil store yields an empty map. Entries that fail to
// read are reported as warnings and keep a nil placeholder under their key;
// empty entries are omitted. Only a failure to count the entries aborts the
// read.
func ReadProperties(store PropertyStore, owner string) (map[string]any, []PropertyWarning, error) {
	properties := make(map[string]any)
	if store == nil {
		return properties, nil, nil
	}

	count, err := store.Count()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count properties: %w", err)
	}

	var warnings []PropertyWarning
	for i := 0; i < count; i++ {
		key, err := store.KeyAt(i)
		if err != nil {
			w := PropertyWarning{Owner: owner, Index: i, Err: err}
			applog.Warnf("%v", w)
			warnings = append(warnings, w)
			continue
		}

		name := key.String()
		value, err := store.Value(key)
		if err != nil {
			w := PropertyWarning{Owner: owner, Index: i, Key: name, Err: err}
			applog.Warnf("%v", w)
			warnings = append(warnings, w)
			properties[name] = nil
			continue
		}
		if value == nil {
			continue
		}
		properties[name] = value
	}

	return properties, warnings, nil
}
