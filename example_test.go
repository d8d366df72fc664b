package ooqd_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bft-labs/ooqd"
)

// ExampleRun drains a queue once with the built-in dfrm command.
func ExampleRun() {
	dir, err := os.MkdirTemp("", "ooqd-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	stale := filepath.Join(dir, "stale.json")
	os.WriteFile(stale, []byte("{}"), 0o600)

	queue := filepath.Join(dir, "queue")
	os.WriteFile(queue, []byte("dfrm "+stale+"\n"), 0o600)

	cfg := ooqd.DefaultConfig()
	cfg.QueuePath = queue
	cfg.Once = true

	if err := ooqd.Run(context.Background(), cfg, ooqd.WithOutput(io.Discard, io.Discard)); err != nil {
		fmt.Println(err)
		return
	}

	_, err = os.Stat(stale)
	fmt.Println("stale removed:", os.IsNotExist(err))
	// Output: stale removed: true
}
