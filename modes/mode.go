package modes

type Mode uint8

const (
	ModeProduction Mode = iota + 1
	ModeDevelopment
)

func (m Mode) String() string {
	switch m {
	case ModeProduction:
		return "production"
	case ModeDevelopment:
		return "development"
	}
	return "unknown"
}

// SearchSystemPaths reports whether system-wide locations like /etc should be consulted.
func (m Mode) SearchSystemPaths() bool {
	return m == ModeProduction
}
