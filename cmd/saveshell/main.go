// saveshell is an interactive shell for a saveslot storage root.
//
// Usage:
//
//	saveshell [options] [root]
//
// Options:
//
//	-c, --config     Settings file (HuJSON)
//	    --hash       Enable integrity digests
//	    --encrypt    Enable encryption
//	-p, --password   Encryption password
//	-v, --verbose    Debug logging
//
// Commands (in REPL):
//
//	use <slot>|default    Select the bucket to operate on
//	file <name>           Select the file bucket within the slot
//	set <key> <value>     Store a value in the selected bucket
//	get <key>             Retrieve a value from the selected bucket
//	del <key>             Not supported; buckets replace wholesale on load
//	keys                  List keys of the selected bucket
//	save [all]            Persist the selected bucket (or everything)
//	load [all]            Restore the selected bucket (or everything)
//	slots                 List slots on disk
//	files                 List the selected slot's files on disk
//	rm                    Delete the selected bucket's artifacts
//	status                Show the current selection and settings
//	help                  Show this help
//	exit / quit / q       Exit
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/saveslot/saveslot"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("saveshell", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	configPath := flags.StringP("config", "c", "", "settings file (HuJSON)")
	hash := flags.Bool("hash", false, "enable integrity digests")
	encrypt := flags.Bool("encrypt", false, "enable encryption")
	password := flags.StringP("password", "p", "", "encryption password")
	verbose := flags.BoolP("verbose", "v", false, "debug logging")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(os.Stdout)

			return nil
		}

		return err
	}

	root := "."
	if flags.NArg() > 0 {
		root = flags.Arg(0)
	}

	settings, err := saveslot.LoadSettings(*configPath)
	if err != nil {
		return err
	}

	if *hash {
		settings.HashEnabled = true
	}

	if *encrypt {
		settings.EncryptionEnabled = true
	}

	if *password != "" {
		settings.Password = *password
	}

	settings.Verbose = *verbose

	// The REPL reports outcomes itself; the engine log only adds value
	// when debugging.
	var opts []saveslot.Option
	if !*verbose {
		opts = append(opts, saveslot.WithLogger(zerolog.Nop()))
	}

	engine, err := saveslot.New(root, settings, opts...)
	if err != nil {
		return err
	}
	defer engine.Teardown()

	repl := &REPL{
		engine: engine,
		root:   root,
		file:   "data",
	}

	return repl.Run()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `saveshell - interactive saveslot shell

Usage: saveshell [options] [root]

Options:
  -c, --config <file>  Settings file (HuJSON)
      --hash           Enable integrity digests
      --encrypt        Enable encryption
  -p, --password <pw>  Encryption password
  -v, --verbose        Debug logging

Type 'help' inside the shell for the command list.`)
}

// REPL is the interactive command loop. It tracks a selection: the slot
// ("" meaning the default bucket) and the file bucket within it.
type REPL struct {
	engine *saveslot.Engine
	root   string
	slot   string
	file   string
	liner  *liner.State
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".saveshell_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	// Echo every engine notification so save/load outcomes are visible
	// even when triggered indirectly.
	unsubscribe := r.engine.Subscribe(func(n saveslot.Notification) {
		if n.Slot != "" {
			fmt.Printf("[event] %s (%s)\n", n.Event, n.Slot)
		} else {
			fmt.Printf("[event] %s\n", n.Event)
		}
	})
	defer unsubscribe()

	settings := r.engine.Settings()
	fmt.Printf("saveshell - root=%s hash=%v encrypt=%v\n", r.root, settings.HashEnabled, settings.EncryptionEnabled)
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt(r.prompt())
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")

			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "use":
			r.cmdUse(args)

		case "file":
			r.cmdFile(args)

		case "set", "put":
			r.cmdSet(args)

		case "get":
			r.cmdGet(args)

		case "keys", "ls":
			r.cmdKeys()

		case "save":
			r.cmdSave(args)

		case "load":
			r.cmdLoad(args)

		case "slots":
			r.cmdSlots()

		case "files":
			r.cmdFiles()

		case "rm":
			r.cmdRm()

		case "status", "info":
			r.cmdStatus()

		case "clear", "cls":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

// prompt renders the current selection into the shell prompt.
func (r *REPL) prompt() string {
	if r.slot == "" {
		return "saveshell:default> "
	}

	return "saveshell:" + r.slot + "/" + r.file + "> "
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

// completer provides tab completion for commands.
func (r *REPL) completer(line string) []string {
	commands := []string{
		"use", "file", "set", "put", "get",
		"keys", "ls", "save", "load",
		"slots", "files", "rm",
		"status", "info", "clear", "cls",
		"help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  use <slot>|default    Select the bucket to operate on")
	fmt.Println("  file <name>           Select the file bucket within the slot")
	fmt.Println("  set <key> <value>     Store a value in the selected bucket")
	fmt.Println("  get <key>             Retrieve a value from the selected bucket")
	fmt.Println("  keys                  List keys of the selected bucket")
	fmt.Println("  save [all]            Persist the selected bucket (or everything)")
	fmt.Println("  load [all]            Restore the selected bucket (or everything)")
	fmt.Println("  slots                 List slots on disk")
	fmt.Println("  files                 List the selected slot's files on disk")
	fmt.Println("  rm                    Delete the selected bucket's artifacts")
	fmt.Println("  status                Show the current selection and settings")
	fmt.Println("  help                  Show this help")
	fmt.Println("  exit / quit / q       Exit")
}

func (r *REPL) cmdUse(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: use <slot>|default")

		return
	}

	if args[0] == "default" {
		r.slot = ""
		r.engine.SetActiveSlot("", saveslot.Silent())
		fmt.Println("Using the default bucket.")

		return
	}

	r.slot = args[0]
	r.engine.SetActiveSlot(args[0])
}

func (r *REPL) cmdFile(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: file <name>")

		return
	}

	r.file = args[0]
	fmt.Printf("Using file bucket %q.\n", r.file)
}

func (r *REPL) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: set <key> <value>")

		return
	}

	key, value := args[0], strings.Join(args[1:], " ")

	if r.slot == "" {
		r.engine.Store().SetDefault(key, value)
	} else {
		r.engine.Store().SetSlot(r.slot, r.file, key, value)
	}

	fmt.Printf("OK: %s = %s (in memory, 'save' to persist)\n", key, value)
}

func (r *REPL) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: get <key>")

		return
	}

	var (
		value string
		ok    bool
	)

	if r.slot == "" {
		value, ok = r.engine.Store().GetDefault(args[0])
	} else {
		value, ok = r.engine.Store().GetSlot(r.slot, r.file, args[0])
	}

	if !ok {
		fmt.Println("(not found)")

		return
	}

	fmt.Println(value)
}

func (r *REPL) cmdKeys() {
	var keys []string
	if r.slot == "" {
		keys = r.engine.Store().DefaultKeys()
	} else {
		keys = r.engine.Store().SlotFileKeys(r.slot, r.file)
	}

	if len(keys) == 0 {
		fmt.Println("(empty)")

		return
	}

	for _, key := range keys {
		fmt.Println(key)
	}
}

func (r *REPL) cmdSave(args []string) {
	if len(args) > 0 && args[0] == "all" {
		if !r.engine.SaveAll() {
			fmt.Println("Save failed; run with --verbose for details.")
		}

		return
	}

	var ok bool
	if r.slot == "" {
		ok = r.engine.SaveDefault()
	} else {
		ok = r.engine.SaveSlotFile(r.slot, r.file)
	}

	if !ok {
		fmt.Println("Save failed; run with --verbose for details.")
	}
}

func (r *REPL) cmdLoad(args []string) {
	if len(args) > 0 && args[0] == "all" {
		if !r.engine.LoadAll() {
			fmt.Println("Load failed; run with --verbose for details.")
		}

		return
	}

	var ok bool
	if r.slot == "" {
		ok = r.engine.LoadDefault()
	} else {
		ok = r.engine.LoadSlotFile(r.slot, r.file)
	}

	if !ok {
		fmt.Println("Load failed; run with --verbose for details.")
	}
}

func (r *REPL) cmdSlots() {
	names, err := r.engine.ListSlotNames()
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	if len(names) == 0 {
		fmt.Println("(no slots on disk)")

		return
	}

	for _, name := range names {
		fmt.Println(name)
	}
}

func (r *REPL) cmdFiles() {
	if r.slot == "" {
		fmt.Println("Select a slot first with 'use <slot>'.")

		return
	}

	names, err := r.engine.ListSlotFiles(r.slot)
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	if len(names) == 0 {
		fmt.Println("(no files on disk)")

		return
	}

	for _, name := range names {
		fmt.Println(name)
	}
}

func (r *REPL) cmdRm() {
	target := "the default bucket"
	if r.slot != "" {
		target = r.slot + "/" + r.file
	}

	answer, err := r.liner.Prompt("Delete the save data of " + target + "? (yes/no): ")
	if err != nil {
		fmt.Println("Cancelled.")

		return
	}

	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "yes" && answer != "y" {
		fmt.Println("Cancelled.")

		return
	}

	var ok bool
	if r.slot == "" {
		ok = r.engine.RemoveDefault()
	} else {
		ok = r.engine.RemoveSlotFile(r.slot, r.file)
	}

	if !ok {
		fmt.Println("Remove failed; run with --verbose for details.")

		return
	}

	fmt.Println("Deleted.")
}

func (r *REPL) cmdStatus() {
	settings := r.engine.Settings()

	bucket := "default"
	if r.slot != "" {
		bucket = r.slot + "/" + r.file
	}

	fmt.Printf("Root:        %s\n", r.root)
	fmt.Printf("Bucket:      %s\n", bucket)
	fmt.Printf("Active slot: %s\n", orNone(r.engine.ActiveSlot()))
	fmt.Printf("Hash:        %v\n", settings.HashEnabled)
	fmt.Printf("Encryption:  %v\n", settings.EncryptionEnabled)

	slots := r.engine.Store().SlotNames()
	if len(slots) > 0 {
		fmt.Printf("In memory:   %s\n", strings.Join(slots, ", "))
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}

	return s
}
