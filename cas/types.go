package cas

import (
	"io"

	"github.com/shamaton/msgpack/v2"
	"github.com/zenzo-ecosystem/zvm/interp"
	"github.com/zenzo-ecosystem/zvm/vm"
)

const (
	valueNone uint8 = iota
	valueNumber
	valueBytes
)

// Record is the stored form of an interp.ExecutionResult.
type Record struct {
	ValueKind uint8
	Number    float64
	Bytes     []byte
	Message   string
	Success   bool
	ErrKind   string
	ErrText   string
}

func (r *Record) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, r)
}

func (r *Record) Deserialize(rd io.Reader) error {
	return msgpack.UnmarshalRead(rd, r)
}

func NewRecord(res interp.ExecutionResult) *Record {
	rec := &Record{
		Message: res.Message,
		Success: res.Success,
	}
	switch v := res.Value.(type) {
	case vm.NumberValue:
		rec.ValueKind = valueNumber
		rec.Number = float64(v)
	case vm.BytesValue:
		rec.ValueKind = valueBytes
		rec.Bytes = []byte(v.Clone().(vm.BytesValue))
	}
	if res.Err != nil {
		rec.ErrText = res.Err.Error()
		if kind := vm.ErrorKind(res.Err); kind != nil {
			rec.ErrKind = kind.Error()
		}
	}
	return rec
}

// Result rebuilds the execution result. A restored error keeps its text and
// still matches its sentinel under errors.Is.
func (r *Record) Result() interp.ExecutionResult {
	res := interp.ExecutionResult{
		Message: r.Message,
		Success: r.Success,
	}
	switch r.ValueKind {
	case valueNumber:
		res.Value = vm.NumberValue(r.Number)
	case valueBytes:
		res.Value = vm.BytesValue(r.Bytes)
	}
	if r.ErrText != "" {
		res.Err = &cachedError{kind: vm.ErrorByName(r.ErrKind), msg: r.ErrText}
	}
	return res
}

type cachedError struct {
	kind error
	msg  string
}

func (e *cachedError) Error() string {
	return e.msg
}

func (e *cachedError) Unwrap() error {
	return e.kind
}
