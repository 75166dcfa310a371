package cmds

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	p.FprintUsage(os.Stderr)
}

func (p *Executor) FprintUsage(w io.Writer) {
	fprintCommands(w, p.commands, 0)
}

func fprintCommands(w io.Writer, commands map[string]*Command, depth int) {
	// aliases share the command pointer, print each command once
	names := make(map[*Command][]string)
	var order []*Command
	for name, command := range commands {
		if command == nil || command.Hidden {
			continue
		}
		if _, ok := names[command]; !ok {
			order = append(order, command)
		}
		names[command] = append(names[command], name)
	}
	for _, command := range order {
		slices.Sort(names[command])
	}
	slices.SortFunc(order, func(a, b *Command) int {
		return strings.Compare(names[a][0], names[b][0])
	})

	indent := strings.Repeat("  ", depth)
	for _, command := range order {
		line := indent + strings.Join(names[command], ", ")
		if command.Func.IsValid() {
			for i := range command.Func.Type().NumIn() {
				line += " <" + command.Func.Type().In(i).String() + ">"
			}
		}
		if command.Description != "" {
			line += "\t" + command.Description
		}
		fmt.Fprintln(w, line)
		if len(command.Subs) > 0 {
			fprintCommands(w, command.Subs, depth+1)
		}
	}
}
