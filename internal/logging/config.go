package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const envVar = "LOGLEVEL"

type tagLevel struct {
	tag   string
	level Level
}

var (
	// Default level, changed by an untagged directive.
	defaultLevel = Info

	tagLevels []tagLevel
	configMu  sync.RWMutex
)

func init() {
	if err := Configure(os.Getenv(envVar)); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid %s: %s\n", envVar, err)
	}
}

// Configure applies comma-separated "tag=level" directives. A directive
// without "tag=" sets the default level, which also becomes the level of
// DefaultLogger. Loggers derived afterwards with WithTag pick up the new
// levels; existing loggers keep theirs.
func Configure(directives string) error {
	configMu.Lock()
	defer configMu.Unlock()

	for _, d := range strings.Split(directives, ",") {
		if d == "" {
			continue
		}
		v := strings.SplitN(d, "=", 2)
		level, err := ParseLevel(v[len(v)-1])
		if err != nil {
			return errors.Wrapf(err, "directive %q", d)
		}
		if len(v) == 1 {
			defaultLevel = level
			DefaultLogger.SetLevel(level)
		} else {
			tagLevels = append(tagLevels, tagLevel{v[0], level})
		}
	}
	return nil
}

func determineLevel(tag string, fallback Level) Level {
	configMu.RLock()
	defer configMu.RUnlock()

	// Later directives override earlier ones.
	for i := len(tagLevels) - 1; i >= 0; i-- {
		if tagLevels[i].tag == tag {
			return tagLevels[i].level
		}
	}
	return fallback
}
