// Command kbctl manages the knowledge base document: verifying it,
// editing entries, and publishing compressed snapshots to the object
// store for the server's hot-reload sync.
//
// Usage:
//
//	kbctl verify  [-file knowledge_base.json]
//	kbctl add     [-file ...] -id ID -category CAT [-title ...] [-content ...] [-tags a,b]
//	kbctl update  [-file ...] -id ID [-category CAT] [-title ...] [-content ...] [-tags a,b]
//	kbctl delete  [-file ...] -id ID
//	kbctl publish [-file ...]
//
// publish reads the object-store settings from the environment, the
// same variables the server uses for snapshot sync.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bjtuwh/campus-assistant-go/internal/config"
	"github.com/bjtuwh/campus-assistant-go/internal/knowledge"
	"github.com/bjtuwh/campus-assistant-go/internal/objstore"
	"github.com/bjtuwh/campus-assistant-go/internal/snapshot"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "verify":
		err = runVerify(os.Args[2:])
	case "add", "update":
		err = runEdit(os.Args[1], os.Args[2:])
	case "delete":
		err = runDelete(os.Args[2:])
	case "publish":
		err = runPublish(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "kbctl %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	_, _ = fmt.Fprintln(os.Stderr, "usage: kbctl <verify|add|update|delete|publish> [flags]")
}

func fileFlag(fs *flag.FlagSet) *string {
	return fs.String("file", "./knowledge_base.json", "Path to the knowledge base document")
}

func loadSnapshot(path string) (*knowledge.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	snap, err := knowledge.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return snap, nil
}

// runVerify parses the document and reports per-category entry counts.
func runVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	file := fileFlag(fs)
	_ = fs.Parse(args)

	snap, err := loadSnapshot(*file)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d entries\n", *file, snap.Len())
	for _, cat := range snap.Categories() {
		entries := snap.ByCategory(cat)
		empty := 0
		for i := range entries {
			if entries[i].Title == "" && entries[i].Question == "" && entries[i].Name == "" {
				empty++
				fmt.Printf("  warning: %s/%s has no title, question or name\n", cat, entries[i].ID)
			}
		}
		fmt.Printf("  %-20s %4d entries, %d warnings\n", cat, len(entries), empty)
	}
	return nil
}

// runEdit adds or updates one entry from command-line flags.
func runEdit(verb string, args []string) error {
	fs := flag.NewFlagSet(verb, flag.ExitOnError)
	file := fileFlag(fs)
	id := fs.String("id", "", "Entry ID (required)")
	category := fs.String("category", "", "Entry category group")
	title := fs.String("title", "", "Entry title")
	content := fs.String("content", "", "Entry content")
	question := fs.String("question", "", "FAQ question")
	answer := fs.String("answer", "", "FAQ answer")
	tags := fs.String("tags", "", "Comma-separated tags")
	_ = fs.Parse(args)

	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	snap, err := loadSnapshot(*file)
	if err != nil {
		return err
	}
	manager := knowledge.NewManager(knowledge.NewStore(snap), *file)

	entry := knowledge.Entry{
		ID:       *id,
		Category: knowledge.Category(*category),
		Title:    *title,
		Content:  *content,
		Question: *question,
		Answer:   *answer,
	}
	if *tags != "" {
		for _, t := range strings.Split(*tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				entry.Tags = append(entry.Tags, t)
			}
		}
	}

	if verb == "add" {
		err = manager.Add(entry)
	} else {
		err = manager.Update(entry)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s %s: ok\n", verb, *id)
	return nil
}

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	file := fileFlag(fs)
	id := fs.String("id", "", "Entry ID (required)")
	_ = fs.Parse(args)

	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	snap, err := loadSnapshot(*file)
	if err != nil {
		return err
	}
	manager := knowledge.NewManager(knowledge.NewStore(snap), *file)
	if err := manager.Delete(*id); err != nil {
		return err
	}
	fmt.Printf("delete %s: ok\n", *id)
	return nil
}

// runPublish compresses the document and uploads it to the object
// store the server polls.
func runPublish(args []string) error {
	fs := flag.NewFlagSet("publish", flag.ExitOnError)
	file := fileFlag(fs)
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.Snapshot.Enabled {
		return fmt.Errorf("snapshot sync is not enabled in the environment")
	}

	snap, err := loadSnapshot(*file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := objstore.New(ctx, objstore.Config{
		Endpoint:        cfg.Snapshot.Endpoint,
		AccessKeyID:     cfg.Snapshot.AccessKeyID,
		SecretAccessKey: cfg.Snapshot.SecretAccessKey,
		Bucket:          cfg.Snapshot.Bucket,
	})
	if err != nil {
		return fmt.Errorf("create object store client: %w", err)
	}

	etag, err := snapshot.Publish(ctx, client, cfg.Snapshot.ObjectKey, snap)
	if err != nil {
		return err
	}
	fmt.Printf("published %d entries to %s/%s (etag %s)\n", snap.Len(), cfg.Snapshot.Bucket, cfg.Snapshot.ObjectKey, etag)
	return nil
}
