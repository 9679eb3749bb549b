package fs

import (
	"os"
	"sync"
)

// Op identifies an [FS] operation for fault injection.
type Op string

// Operations a [Faulty] filesystem can fail.
const (
	OpReadFile  Op = "readfile"
	OpWriteFile Op = "writefile"
	OpReadDir   Op = "readdir"
	OpMkdirAll  Op = "mkdirall"
	OpStat      Op = "stat"
	OpExists    Op = "exists"
	OpRemove    Op = "remove"
	OpLock      Op = "lock"
)

// Faulty wraps another [FS] and fails selected operations with a configured
// error. Operations without a configured failure pass through to the
// underlying filesystem.
//
// Safe for concurrent use.
type Faulty struct {
	// Underlying handles all operations that are not set to fail.
	Underlying FS

	mu    sync.Mutex
	fails map[Op]error
}

// NewFaulty returns a [Faulty] filesystem passing through to underlying.
func NewFaulty(underlying FS) *Faulty {
	return &Faulty{
		Underlying: underlying,
		fails:      make(map[Op]error),
	}
}

// FailWith makes all future calls to op return err. A nil err clears the
// failure.
func (f *Faulty) FailWith(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		delete(f.fails, op)

		return
	}

	f.fails[op] = err
}

func (f *Faulty) failure(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fails[op]
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if err := f.failure(OpReadFile); err != nil {
		return nil, err
	}

	return f.Underlying.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.failure(OpWriteFile); err != nil {
		return err
	}

	return f.Underlying.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) ReadDir(path string) ([]os.DirEntry, error) {
	if err := f.failure(OpReadDir); err != nil {
		return nil, err
	}

	return f.Underlying.ReadDir(path)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	if err := f.failure(OpMkdirAll); err != nil {
		return err
	}

	return f.Underlying.MkdirAll(path, perm)
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	if err := f.failure(OpStat); err != nil {
		return nil, err
	}

	return f.Underlying.Stat(path)
}

func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.failure(OpExists); err != nil {
		return false, err
	}

	return f.Underlying.Exists(path)
}

func (f *Faulty) Remove(path string) error {
	if err := f.failure(OpRemove); err != nil {
		return err
	}

	return f.Underlying.Remove(path)
}

func (f *Faulty) Lock(path string) (Locker, error) {
	if err := f.failure(OpLock); err != nil {
		return nil, err
	}

	return f.Underlying.Lock(path)
}

// Compile-time interface check.
var _ FS = (*Faulty)(nil)
