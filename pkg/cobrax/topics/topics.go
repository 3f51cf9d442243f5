// Package topics adds file-backed help topics to a cobra application.
// Topic documents ship inside the binary through an embed.FS, so the
// extended help works wherever the binary lands, with no doc files to
// install alongside it.
package topics

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Topic is one help document.
type Topic struct {
	Name    string
	Path    string
	Content string
}

// Options configure Install.
type Options struct {
	// Renderer formats topic content for display. Defaults to
	// PlainRenderer.
	Renderer Renderer
}

// Manager indexes topic documents and answers lookups for the help
// command.
type Manager struct {
	docs         fs.FS
	topics       map[string]*Topic
	renderer     Renderer
	originalHelp func(*cobra.Command, []string)
}

var topicExtensions = []string{".md", ".txt"}

// NewManager builds a manager over docs. Call load before lookups.
func NewManager(docs fs.FS, opts Options) *Manager {
	m := &Manager{
		docs:     docs,
		topics:   make(map[string]*Topic),
		renderer: opts.Renderer,
	}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}
	return m
}

// load walks docs and indexes every markdown or text file under its
// basename without the extension. Subdirectories flatten into the same
// namespace.
func (m *Manager) load() error {
	return fs.WalkDir(m.docs, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := path.Ext(p)
		supported := false
		for _, want := range topicExtensions {
			if ext == want {
				supported = true
				break
			}
		}
		if !supported {
			return nil
		}
		content, err := fs.ReadFile(m.docs, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), ext)
		m.topics[name] = &Topic{Name: name, Path: p, Content: string(content)}
		return nil
	})
}

// Topic looks up a topic by name, tolerating a flag-style --name
// spelling.
func (m *Manager) Topic(name string) (*Topic, bool) {
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")
	t, ok := m.topics[name]
	return t, ok
}

// Names returns all topic names, sorted.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) render(t *Topic) string {
	return m.renderer.Render(t.Content, path.Ext(t.Path))
}

// Install loads the topic documents and replaces rootCmd's help
// command with one that resolves topics as well as commands. The
// original help behavior is kept for everything that is not a topic.
func Install(rootCmd *cobra.Command, docs fs.FS, opts Options) error {
	m := NewManager(docs, opts)
	if err := m.load(); err != nil {
		return fmt.Errorf("scanning help topics: %w", err)
	}

	m.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: fmt.Sprintf(`Help provides help for any command or topic in the application.
Type %[1]s help [command or topic] for full details.

To see all available help topics:
  %[1]s help topics`, rootCmd.Name()),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.Names()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				m.originalHelp(rootCmd, nil)
				return
			}
			if args[0] == "topics" {
				names := m.Names()
				if len(names) == 0 {
					fmt.Fprintln(out, "No help topics available.")
					return
				}
				fmt.Fprintln(out, "Available help topics:")
				for _, name := range names {
					fmt.Fprintf(out, "  %s\n", name)
				}
				fmt.Fprintf(out, "\nUse '%s help <topic>' to read about a specific topic.\n", rootCmd.Name())
				return
			}
			if topic, ok := m.Topic(args[0]); ok {
				fmt.Fprint(out, m.render(topic))
				return
			}
			m.originalHelp(rootCmd, args)
		},
	}

	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)

	// The --help flag also resolves topics, so 'app --help transitions'
	// and 'app help transitions' behave the same.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, ok := m.Topic(args[0]); ok {
				fmt.Fprint(cmd.OutOrStdout(), m.render(topic))
				return
			}
		}
		m.originalHelp(cmd, args)
	})

	return nil
}
