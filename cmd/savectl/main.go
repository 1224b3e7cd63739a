// savectl is a one-shot CLI for inspecting and editing a saveslot
// storage root.
//
// Usage:
//
//	savectl [options] <command> [args]
//
// Options:
//
//	-r, --root      Storage root directory (default ".")
//	-c, --config    Settings file (HuJSON)
//	-s, --slot      Operate on a slot instead of the default bucket
//	-f, --file      File bucket within the slot (default "data")
//	-v, --verbose   Debug logging
//
// Commands:
//
//	get <key>         Print the value stored under key
//	set <key> <val>   Store a value and persist the bucket
//	show              Print every key/value pair of the bucket
//	ls                List slots on disk (or the files of --slot)
//	rm [all]          Delete the bucket's artifacts ('rm all' wipes everything)
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/saveslot/saveslot"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("savectl", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	root := flags.StringP("root", "r", ".", "storage root directory")
	configPath := flags.StringP("config", "c", "", "settings file (HuJSON)")
	slot := flags.StringP("slot", "s", "", "operate on a slot instead of the default bucket")
	file := flags.StringP("file", "f", "data", "file bucket within the slot")
	verbose := flags.BoolP("verbose", "v", false, "debug logging")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(os.Stdout)

			return nil
		}

		return err
	}

	rest := flags.Args()
	if len(rest) == 0 {
		printUsage(os.Stdout)

		return nil
	}

	settings, err := saveslot.LoadSettings(*configPath)
	if err != nil {
		return err
	}

	settings.Verbose = *verbose

	// Engine logging is noise in a one-shot tool; errors surface through
	// the command's own output unless --verbose asks for the full log.
	var opts []saveslot.Option
	if !*verbose {
		opts = append(opts, saveslot.WithLogger(zerolog.Nop()))
	}

	engine, err := saveslot.New(*root, settings, opts...)
	if err != nil {
		return err
	}
	defer engine.Teardown()

	cmd, cmdArgs := rest[0], rest[1:]

	switch cmd {
	case "get":
		return cmdGet(engine, *slot, *file, cmdArgs)
	case "set":
		return cmdSet(engine, *slot, *file, cmdArgs)
	case "show":
		return cmdShow(engine, *slot, *file)
	case "ls":
		return cmdLs(engine, *slot)
	case "rm":
		return cmdRm(engine, *slot, *file, flags.Changed("file"), cmdArgs)
	default:
		printUsage(os.Stderr)

		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `savectl - saveslot storage tool

Usage: savectl [options] <command> [args]

Options:
  -r, --root <dir>     Storage root directory [default: .]
  -c, --config <file>  Settings file (HuJSON)
  -s, --slot <name>    Operate on a slot instead of the default bucket
  -f, --file <name>    File bucket within the slot [default: data]
  -v, --verbose        Debug logging

Commands:
  get <key>            Print the value stored under key
  set <key> <value>    Store a value and persist the bucket
  show                 Print every key/value pair of the bucket
  ls                   List slots on disk (or the files of --slot)
  rm [all]             Delete the bucket's artifacts ('rm all' wipes everything)`)
}

// loadBucket pulls the selected bucket from disk into the cache.
func loadBucket(engine *saveslot.Engine, slot, file string) error {
	var ok bool
	if slot == "" {
		ok = engine.LoadDefault(saveslot.Silent())
	} else {
		ok = engine.LoadSlotFile(slot, file, saveslot.Silent())
	}

	if !ok {
		return fmt.Errorf("no readable save data for %s", bucketName(slot, file))
	}

	return nil
}

func bucketName(slot, file string) string {
	if slot == "" {
		return "the default bucket"
	}

	return slot + "/" + file
}

func cmdGet(engine *saveslot.Engine, slot, file string, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: get <key>")
	}

	if err := loadBucket(engine, slot, file); err != nil {
		return err
	}

	var (
		value string
		ok    bool
	)

	if slot == "" {
		value, ok = engine.Store().GetDefault(args[0])
	} else {
		value, ok = engine.Store().GetSlot(slot, file, args[0])
	}

	if !ok {
		return fmt.Errorf("key not found: %s", args[0])
	}

	fmt.Println(value)

	return nil
}

func cmdSet(engine *saveslot.Engine, slot, file string, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: set <key> <value>")
	}

	// Merge into the existing bucket when one is on disk; a missing
	// artifact just means this is the first write.
	if slot == "" {
		engine.LoadDefault(saveslot.Silent())
		engine.Store().SetDefault(args[0], args[1])

		if !engine.SaveDefault(saveslot.Silent()) {
			return errors.New("saving the default bucket failed")
		}

		return nil
	}

	engine.LoadSlotFile(slot, file, saveslot.Silent())
	engine.Store().SetSlot(slot, file, args[0], args[1])

	if !engine.SaveSlotFile(slot, file, saveslot.Silent()) {
		return fmt.Errorf("saving %s failed", bucketName(slot, file))
	}

	return nil
}

func cmdShow(engine *saveslot.Engine, slot, file string) error {
	if err := loadBucket(engine, slot, file); err != nil {
		return err
	}

	var keys []string
	if slot == "" {
		keys = engine.Store().DefaultKeys()
	} else {
		keys = engine.Store().SlotFileKeys(slot, file)
	}

	if len(keys) == 0 {
		fmt.Println("(empty)")

		return nil
	}

	for _, key := range keys {
		var value string
		if slot == "" {
			value, _ = engine.Store().GetDefault(key)
		} else {
			value, _ = engine.Store().GetSlot(slot, file, key)
		}

		fmt.Printf("%s = %s\n", key, value)
	}

	return nil
}

func cmdLs(engine *saveslot.Engine, slot string) error {
	var (
		names []string
		err   error
	)

	if slot == "" {
		names, err = engine.ListSlotNames()
	} else {
		names, err = engine.ListSlotFiles(slot)
	}

	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Println("(none)")

		return nil
	}

	for _, name := range names {
		fmt.Println(name)
	}

	return nil
}

func cmdRm(engine *saveslot.Engine, slot, file string, fileSet bool, args []string) error {
	if len(args) > 0 && args[0] == "all" {
		if !engine.RemoveAll() {
			return errors.New("removing all save data failed")
		}

		return nil
	}

	var ok bool

	switch {
	case slot == "":
		ok = engine.RemoveDefault()
	case fileSet:
		ok = engine.RemoveSlotFile(slot, file)
	default:
		ok = engine.RemoveSlot(slot)
	}

	if !ok {
		return fmt.Errorf("removing %s failed", bucketName(slot, file))
	}

	return nil
}
