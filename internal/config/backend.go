package config

// ConfigBackend is the platform-native settings store behind the key
// specs in keys.go. On macOS it is the coachwire defaults domain; on
// other systems it is a JSON file in the XDG config directory. Booleans
// and floats travel as strings; only ints get a typed accessor because
// `defaults` distinguishes them.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	Delete(key string) error
}
