package connect

import "errors"

var (
	ErrNilModule         = errors.New("module is nil")
	ErrNotAStruct        = errors.New("connected type is not a struct")
	ErrDuplicateMember   = errors.New("duplicate member key")
	ErrMissingMember     = errors.New("effect method has no connected member")
	ErrUnexpectedMember  = errors.New("connected member has no effect method")
	ErrSignatureMismatch = errors.New("connected member does not match effect method")
	ErrKeyMismatch       = errors.New("connected member is bound under another key")
	ErrNilEffect         = errors.New("effect method is nil")
	ErrUnbound           = errors.New("connected member is not bound")
	ErrUnknownEffect     = errors.New("no connected member for effect")
	ErrEffectPanicked    = errors.New("effect method panicked")
)
