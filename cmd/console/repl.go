package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"go-rnbo/controls"
	"go-rnbo/midi"
	"go-rnbo/page"
	"go-rnbo/rnbo"
	"go-rnbo/rnbo/sim"
	"go-rnbo/snapshot"
)

type env struct {
	session *page.Session
	board   *controls.Board
	device  *sim.Device
	store   *snapshot.Store
}

func (e *env) eval(input string) (string, error) {
	fields := strings.Fields(input)
	name, args := fields[0], fields[1:]
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if cmd.arity < 0 {
			arity := -cmd.arity
			if len(args) < arity {
				return "", fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					cmd.name, arity, len(args))
			}
		} else if len(args) != cmd.arity {
			return "", fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(args))
		}
		result, err := cmd.run(e, args)
		if err != nil {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, nil
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

func repl(env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if result, err := env.eval(line); err != nil {
			fmt.Println(err)
		} else if result != "" {
			fmt.Println(result)
		}
	}
}

type command struct {
	name  string
	run   func(*env, []string) (string, error)
	arity int // -n means len(args) must be >= n
	usage string
}

var commands []command

func init() {
	commands = []command{
		{"params", paramsCommand, 0, "params                list parameters"},
		{"set", setCommand, 2, "set <name> <value>    write a parameter"},
		{"ports", portsCommand, 0, "ports                 list message ports"},
		{"send", sendCommand, -1, "send <tag> [n ...]    send numbers to an inport"},
		{"emit", emitCommand, -1, "emit <tag> [n ...]    simulate an outport message"},
		{"note", noteCommand, 1, "note <key>            play a note on the keyboard"},
		{"sample", sampleCommand, 2, "sample <col> <slot>   toggle a sample slot"},
		{"preset", presetCommand, 1, "preset <index>        apply a preset"},
		{"events", eventsCommand, 0, "events                list scheduled events"},
		{"save", saveCommand, 1, "save <name>           save a snapshot of the controls"},
		{"saves", savesCommand, 0, "saves                 list snapshots, newest first"},
		{"restore", restoreCommand, 1, "restore <index>       restore a snapshot from saves"},
		{"rename", renameCommand, 2, "rename <index> <name> rename a snapshot"},
		{"drop", dropCommand, 1, "drop <index>          delete a snapshot"},
		{"help", helpCommand, 0, "help                  show this list"},
	}
}

func paramsCommand(env *env, args []string) (string, error) {
	var lines []string
	for _, p := range env.device.Parameters() {
		lines = append(lines, fmt.Sprintf("%-16s %8.2f  [%g, %g]", p.Name(), p.Value(), p.Min(), p.Max()))
	}
	return strings.Join(lines, "\n"), nil
}

func setCommand(env *env, args []string) (string, error) {
	var name string
	var v float64
	if err := readArgs(args, &name, &v); err != nil {
		return "", err
	}
	p := rnbo.FindParameter(env.device, name)
	if p == nil {
		return "", fmt.Errorf("unknown parameter: %s", name)
	}
	p.SetValue(v)
	return fmt.Sprintf("%s = %.2f", name, p.Value()), nil
}

func portsCommand(env *env, args []string) (string, error) {
	var lines []string
	for _, m := range env.device.Messages() {
		lines = append(lines, fmt.Sprintf("%-8s %s", m.Type, m.Tag))
	}
	if env.device.NumMIDIInputPorts() > 0 {
		lines = append(lines, fmt.Sprintf("midi     %d input(s)", env.device.NumMIDIInputPorts()))
	}
	return strings.Join(lines, "\n"), nil
}

func sendCommand(env *env, args []string) (string, error) {
	form := env.session.Inports
	if form == nil {
		return "", errors.New("no inports")
	}
	if err := form.Select(args[0]); err != nil {
		return "", err
	}
	ev, err := form.Submit(strings.Join(args[1:], " "))
	if err != nil {
		return "", err
	}
	return ev.String(), nil
}

func emitCommand(env *env, args []string) (string, error) {
	payload := controls.ParsePayload(strings.Join(args[1:], " "))
	env.device.Emit(args[0], payload...)
	return env.board.Text(controls.ConsoleReadout), nil
}

func noteCommand(env *env, args []string) (string, error) {
	kb := env.session.Keyboard
	if kb == nil {
		return "", errors.New("patch takes no MIDI input")
	}
	var note int
	if err := readArgs(args, &note); err != nil {
		return "", err
	}
	if note < 0 || note > 127 {
		return "", fmt.Errorf("note %d out of range", note)
	}
	if k := kb.Key(uint8(note)); k != nil {
		return "", k.Press()
	}
	return "", kb.Send(midi.Event{Type: midi.NoteOn, Note: uint8(note), Velocity: 100})
}

func sampleCommand(env *env, args []string) (string, error) {
	var col string
	var slot int
	if err := readArgs(args, &col, &slot); err != nil {
		return "", err
	}
	for _, b := range env.session.Banks {
		if b.Column != col {
			continue
		}
		if err := b.Toggle(slot, !b.Checked(slot)); err != nil {
			return "", err
		}
		if b.Current() < 0 {
			return fmt.Sprintf("%s stopped", col), nil
		}
		return fmt.Sprintf("%s playing %d", col, b.Current()), nil
	}
	return "", fmt.Errorf("unknown sample column: %s", col)
}

func presetCommand(env *env, args []string) (string, error) {
	p := env.session.Presets
	if p == nil {
		return "", errors.New("patch has no presets")
	}
	var i int
	if err := readArgs(args, &i); err != nil {
		return "", err
	}
	if err := p.Select(i); err != nil {
		return "", err
	}
	return p.Names()[i], nil
}

func eventsCommand(env *env, args []string) (string, error) {
	var lines []string
	for _, ev := range env.device.Scheduled() {
		switch e := ev.(type) {
		case rnbo.MIDIEvent:
			lines = append(lines, fmt.Sprintf("%10.1f  midi %d  %s", e.Time, e.Port, midi.Describe(e.Data)))
		case rnbo.MessageEvent:
			lines = append(lines, fmt.Sprintf("%10s  %s", timeString(e.Time), e))
		}
	}
	return strings.Join(lines, "\n"), nil
}

func saveCommand(env *env, args []string) (string, error) {
	info, err := env.store.Save(snapshot.Capture(env.session), args[0])
	if err != nil {
		return "", err
	}
	return info.Filename, nil
}

func savesCommand(env *env, args []string) (string, error) {
	saves, err := env.store.List(env.patchName())
	if err != nil {
		return "", err
	}
	lines := make([]string, len(saves))
	for i, s := range saves {
		lines[i] = fmt.Sprintf("%2d  %s  %s", i, s.Timestamp.Format("2006-01-02 15:04:05"), s.Name)
	}
	return strings.Join(lines, "\n"), nil
}

func restoreCommand(env *env, args []string) (string, error) {
	var i int
	if err := readArgs(args, &i); err != nil {
		return "", err
	}
	filename, err := env.saveAt(i)
	if err != nil {
		return "", err
	}
	snap, err := env.store.Load(env.patchName(), filename)
	if err != nil {
		return "", err
	}
	return filename, snapshot.Apply(env.session, snap)
}

func renameCommand(env *env, args []string) (string, error) {
	var i int
	var name string
	if err := readArgs(args, &i, &name); err != nil {
		return "", err
	}
	filename, err := env.saveAt(i)
	if err != nil {
		return "", err
	}
	return env.store.Rename(env.patchName(), filename, name)
}

func dropCommand(env *env, args []string) (string, error) {
	var i int
	if err := readArgs(args, &i); err != nil {
		return "", err
	}
	filename, err := env.saveAt(i)
	if err != nil {
		return "", err
	}
	return "deleted " + filename, env.store.Delete(env.patchName(), filename)
}

// saveAt returns the filename at index i of the saves listing
func (e *env) saveAt(i int) (string, error) {
	saves, err := e.store.List(e.patchName())
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(saves) {
		return "", fmt.Errorf("no snapshot %d", i)
	}
	return saves[i].Filename, nil
}

func (e *env) patchName() string {
	return e.session.Description.Title("untitled")
}

func helpCommand(env *env, args []string) (string, error) {
	lines := make([]string, len(commands))
	for i, c := range commands {
		lines[i] = c.usage
	}
	return strings.Join(lines, "\n"), nil
}

func timeString(t float64) string {
	if t == rnbo.TimeNow {
		return "now"
	}
	return strconv.FormatFloat(t, 'f', 1, 64)
}

func readArgs(args []string, slots ...any) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		switch p := slots[n].(type) {
		case *string:
			*p = arg
		case *float64:
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("argument error: expected a number, got %q", arg)
			}
			*p = v
		case *int:
			v, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("argument error: expected an integer, got %q", arg)
			}
			*p = v
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
