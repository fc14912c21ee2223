package enums

type Gender string

const (
	GenderA Gender = "a"
	GenderB Gender = "b"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderA, GenderB:
		return true
	default:
		return false
	}
}
