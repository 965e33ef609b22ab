package enums

// SubjectKind distinguishes which table a session token points at.
type SubjectKind string

const (
	SubjectKindUser  SubjectKind = "user"
	SubjectKindAdmin SubjectKind = "admin"
)

// IsValid reports whether the subject kind is known.
func (k SubjectKind) IsValid() bool {
	return k == SubjectKindUser || k == SubjectKindAdmin
}
