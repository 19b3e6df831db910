package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

type Logger struct {
	// The level at which this logger logs. Any log messages intended for a higher
	// (more verbose) log level are ignored. Accessed atomically, since
	// Configure may change DefaultLogger's level while others are logging.
	level int32

	// Tag used to filter and classify log messages.
	Tag string

	out io.Writer

	// Mutex to prevent messages from different goroutines from interleaving.
	// Shared by all derived loggers.
	mu *sync.Mutex
}

// Write to stderr by default.
var DefaultLogger = New(os.Stderr)

// New returns an untagged logger at the default level, writing to out.
func New(out io.Writer) *Logger {
	configMu.RLock()
	level := defaultLevel
	configMu.RUnlock()
	return newLogger(level, "", out, new(sync.Mutex))
}

func newLogger(level Level, tag string, out io.Writer, mu *sync.Mutex) *Logger {
	return &Logger{int32(level), tag, out, mu}
}

// Level returns the level at which this logger logs.
func (log *Logger) Level() Level {
	return Level(atomic.LoadInt32(&log.level))
}

// SetLevel changes the level of this logger. Derived loggers are unaffected.
func (log *Logger) SetLevel(level Level) {
	atomic.StoreInt32(&log.level, int32(level))
}

// Return the destination, guarded against a concurrent SetDestination.
func (log *Logger) dest() io.Writer {
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.out
}

// Override the destination for this logger.
func (log *Logger) SetDestination(out io.Writer) {
	log.mu.Lock()
	log.out = out
	log.mu.Unlock()
}

// Derive a new logger with the given tag. Look up the level based on the tag.
func (log *Logger) WithTag(tag string) *Logger {
	return newLogger(determineLevel(tag, log.Level()), tag, log.dest(), log.mu)
}

// Derive a new logger with the given default level. This can still be overridden at
// runtime.
func (log *Logger) WithDefaultLevel(level Level) *Logger {
	return newLogger(determineLevel(log.Tag, level), log.Tag, log.dest(), log.mu)
}

// Wrapper for []byte that implements io.Writer. Simpler and cheaper than
// bytes.Buffer.
type buffer []byte

func (b *buffer) Write(p []byte) (int, error) {
	*b = append(*b, p...)
	return len(p), nil
}

func (b *buffer) writeByte(c byte) {
	*b = append(*b, c)
}

// A global buffer pool, shared across all loggers. Initial capacity is 256 to
// accommodate *most* log lines.
var bufPool = sync.Pool{
	New: func() interface{} {
		return make(buffer, 0, 256)
	},
}

// Log a message at the given level. Include the file and line number from
// 'calldepth' steps up the call stack.
func (log *Logger) Log(level Level, calldepth int, format string, a ...interface{}) {
	if level > log.Level() {
		// Message is too verbose for this logger.
		return
	}

	buf := bufPool.Get().(buffer)
	defer func() { bufPool.Put(buf[:0]) }()

	timestampColor.Fprint(&buf, time.Now().Format(timestampFormat))

	_, file, line, ok := runtime.Caller(calldepth + 1)
	if !ok {
		file = "?"
	}
	level.color().Fprintf(&buf, " %c/%s[%s:%d] ", level.letter(), log.Tag, filepath.Base(file), line)

	fmt.Fprintf(&buf, format, a...)

	// Append newline if necessary.
	if n := len(format); n == 0 || format[n-1] != '\n' {
		buf.writeByte('\n')
	}

	// Lock before writing to avoid interleaving of log messages.
	log.mu.Lock()
	defer log.mu.Unlock()
	if _, err := log.out.Write(buf); err != nil {
		panic(fmt.Sprintf("Failed to log to %v: %v", log.out, err))
	}
}

func (log *Logger) Error(format string, a ...interface{}) {
	log.Log(Error, 1, format, a...)
}

func (log *Logger) Warn(format string, a ...interface{}) {
	log.Log(Warn, 1, format, a...)
}

func (log *Logger) Info(format string, a ...interface{}) {
	log.Log(Info, 1, format, a...)
}

func (log *Logger) Debug(format string, a ...interface{}) {
	log.Log(Debug, 1, format, a...)
}

func (log *Logger) Trace(n int, format string, a ...interface{}) {
	log.Log(Level(n), 1, format, a...)
}

// Fatal logs at Error level and exits the process with status 1.
func (log *Logger) Fatal(format string, a ...interface{}) {
	log.Log(Error, 1, format, a...)
	os.Exit(1)
}
