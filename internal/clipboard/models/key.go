package models

// Key is the stable identity of an entry across renders and re-sorts.
type Key string

// KeyOf resolves the stable key of an entry: the row id for paid-tier rows
// (falling back to the text for rows not yet assigned an id) and the text
// itself for free-tier entries, where duplicate text is rejected on add.
func KeyOf(e Entry) Key {
	switch v := e.(type) {
	case LocalEntry:
		return Key(v.Text)
	case *LocalEntry:
		if v == nil {
			return ""
		}
		return Key(v.Text)
	case RemoteEntry:
		return rowKey(v.Row)
	case *RemoteEntry:
		if v == nil {
			return ""
		}
		return rowKey(v.Row)
	}
	return ""
}

func rowKey(r Row) Key {
	if r.ID != "" {
		return Key(r.ID)
	}
	return Key(r.Text)
}

// KeysOf maps entries to their keys, preserving order.
func KeysOf(entries []Entry) []Key {
	keys := make([]Key, len(entries))
	for i, e := range entries {
		keys[i] = KeyOf(e)
	}
	return keys
}

// IndexOf returns the position of key in entries, or -1.
func IndexOf(entries []Entry, key Key) int {
	for i, e := range entries {
		if KeyOf(e) == key {
			return i
		}
	}
	return -1
}
