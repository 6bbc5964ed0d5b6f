package rawpb

// Source is the field-level read contract the parser is written against.
//
// BufferReader completes every call before returning. A streaming source may
// instead return ok == false from the TryReadVarint methods and
// ReadFieldHeader while its input has not arrived; for a buffer it means the
// window is exhausted.
type Source interface {
	Position() int64
	End() int64
	Remaining() int
	FieldHeader() FieldHeader

	Skip(n int) error
	ReadFixed32() (uint32, error)
	ReadFixed64() (uint64, error)
	ReadBytes(n int) ([]byte, error)
	ReadText(n int) (string, error)

	AssertNextField(fieldNumber int) bool
	ReadFieldHeader() (FieldHeader, bool, error)
	TryReadVarint(consume bool) (uint32, bool, error)
	TryReadVarint64(consume bool) (uint64, bool, error)

	EnterMessage(length int) (Scope, error)
	LeaveMessage(s Scope) error
}

var _ Source = (*BufferReader)(nil)
