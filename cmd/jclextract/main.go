// Command jclextract reads the configured entry member, preprocesses
// and assembles its steps, and writes the result to the configured
// database (spec.md §6.4). It takes no flags: every option comes from
// the fixed configuration file.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jclnorm/jclextract"
	"github.com/jclnorm/jclextract/config"
	"github.com/jclnorm/jclextract/library"
	"github.com/jclnorm/jclextract/preprocess"
	"github.com/jclnorm/jclextract/step"
	"github.com/jclnorm/jclextract/store"
)

const defaultConfigPath = "jclextract.yaml"

func main() {
	log := logrus.New()

	cfg, err := config.Load(defaultConfigPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if cfg == nil {
		fmt.Printf("no config at %s, nothing to do\n", defaultConfigPath)
		return
	}

	mode := library.Filesystem
	if cfg.NativePDS() {
		mode = library.NativePDS
	}
	roots := append([]string{cfg.Path}, cfg.LibraryRoots()...)
	resolver := library.New(mode, cfg.Ext, roots)

	source := fileSource{}
	driver := preprocess.New(resolver, source, log, jclextract.ParseCard)

	path, err := resolver.Resolve(cfg.File)
	if err != nil {
		log.WithField("member", cfg.File).Warnf("entry member unresolved, skipping: %v", err)
		return
	}
	lines, err := source.ReadLines(path)
	if err != nil {
		log.Fatalf("reading entry member %q: %v", path, err)
	}

	events := driver.Run(lines)
	steps := step.Assemble(events)

	ctx := context.Background()
	dsn := fmt.Sprintf("dbname=%s user=%s password=%s sslmode=disable", cfg.Database, cfg.User, cfg.Password)
	db, err := store.NewPostgresStore(ctx, dsn)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer db.Close()

	if err := db.InsertProject(ctx, cfg.Project, steps, cfg.DropTables); err != nil {
		log.Fatalf("persisting project %q: %v", cfg.Project, err)
	}

	fmt.Printf("%s: %d steps extracted\n", cfg.Project, len(steps))
}

// fileSource reads raw card lines from the local filesystem.
type fileSource struct{}

func (fileSource) ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256), 1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
