package badgerdb

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

// OpenStore opens a badgerhold store rooted at dir. An empty dir keeps the
// whole store in memory.
func OpenStore(dir string, logger logrus.FieldLogger) (*badgerhold.Store, error) {
	options := badgerhold.DefaultOptions
	if dir == "" {
		options.Options = badger.DefaultOptions("").WithInMemory(true)
	} else {
		options.Options = badger.DefaultOptions(dir)
	}
	if logger != nil {
		options.Options = options.Options.WithLogger(logger.WithField("component", "badger"))
	} else {
		options.Options = options.Options.WithLogger(nil)
	}

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return store, nil
}
