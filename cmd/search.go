package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/flowsearch/internal/query"
	"github.com/telhawk-systems/flowsearch/internal/results"
	"github.com/telhawk-systems/flowsearch/internal/session"
	"github.com/telhawk-systems/flowsearch/pkg/output"
)

// searchFlags maps flag names to criteria fields.
var searchFlags = []struct {
	flag, field, usage string
}{
	{"account-id", query.FieldAccountID, "AWS account ID"},
	{"instance-id", query.FieldInstanceID, "instance ID"},
	{"srcaddr", query.FieldSrcAddr, "source IP address"},
	{"dstaddr", query.FieldDstAddr, "destination IP address"},
	{"srcport", query.FieldSrcPort, "source port"},
	{"dstport", query.FieldDstPort, "destination port"},
	{"protocol", query.FieldProtocol, "IANA protocol number (" + optionList(query.ProtocolOptions) + ")"},
	{"action", query.FieldAction, "action (" + optionList(query.ActionOptions) + ")"},
	{"log-status", query.FieldLogStatus, "log status (" + optionList(query.LogStatusOptions) + ")"},
}

// localLayouts are accepted for --start/--end besides epoch seconds and RFC 3339.
var localLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search flow-log events",
	Long: `Search ingested flow-log events. A time window (--start, --end) and at
least one other filter are required.`,
	Example: `  flowsearch search --start 1700000000 --end 1700003600 --srcaddr 10.0.0.5
  flowsearch search --start 2024-01-01T00:00 --end 2024-01-02T00:00 --action REJECT --page 2
  flowsearch search --start 1700000000 --end 1700003600 --protocol 6 --interactive
  flowsearch search --start 1700000000 --end 1700003600 --dstport 443 -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := criteriaFromFlags(cmd)
		if err != nil {
			return err
		}

		sess := newSession()
		set, err := sess.Search(cmd.Context(), criteria)
		if err != nil {
			return err
		}

		if handled, err := output.Structured(cfg.Output, set); handled {
			return err
		}

		page, _ := cmd.Flags().GetInt("page")
		if page < 1 {
			return fmt.Errorf("page %d is out of range", page)
		}
		if page > 1 && !sess.Navigate(func(p *results.Pager) bool { return p.Goto(page) }) {
			return fmt.Errorf("page %d is out of range", page)
		}

		out := cmd.OutOrStdout()
		printView(out, sess.View())

		if view, _ := cmd.Flags().GetInt("view"); view > 0 {
			if err := printDetail(out, sess.View(), view); err != nil {
				return err
			}
		}

		if interactive, _ := cmd.Flags().GetBool("interactive"); interactive && !set.Empty() {
			return navigate(cmd.InOrStdin(), out, sess)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	for _, f := range searchFlags {
		searchCmd.Flags().String(f.flag, "", f.usage)
	}
	searchCmd.Flags().String("start", "", "window start: epoch seconds, RFC 3339 or YYYY-MM-DDTHH:MM local time (required)")
	searchCmd.Flags().String("end", "", "window end: epoch seconds, RFC 3339 or YYYY-MM-DDTHH:MM local time (required)")
	searchCmd.Flags().Int("page", 1, "result page to show")
	searchCmd.Flags().Int("view", 0, "show details of the Nth event on the page")
	searchCmd.Flags().BoolP("interactive", "i", false, "page through results interactively")
}

func criteriaFromFlags(cmd *cobra.Command) (query.Criteria, error) {
	c := query.Criteria{}
	for _, f := range searchFlags {
		v, err := cmd.Flags().GetString(f.flag)
		if err != nil {
			return nil, err
		}
		c.Set(f.field, v)
	}

	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	c.Set(query.FieldStartTime, epochSeconds(start))
	c.Set(query.FieldEndTime, epochSeconds(end))
	return c, nil
}

// epochSeconds converts a date to epoch seconds. Values it cannot parse are
// returned unchanged for the validator to reject.
func epochSeconds(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return raw
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return strconv.FormatInt(t.Unix(), 10)
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return strconv.FormatInt(t.Unix(), 10)
		}
	}
	return raw
}

func optionList(opts []query.Option) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		if o.Label == o.Value {
			parts[i] = o.Value
		} else {
			parts[i] = o.Value + "=" + o.Label
		}
	}
	return strings.Join(parts, ", ")
}

func printView(w io.Writer, v results.View) {
	if v.Empty {
		fmt.Fprintln(w, v.Header)
		fmt.Fprintln(w, v.Footer)
		return
	}

	fmt.Fprintln(w, v.Header)
	fmt.Fprintln(w)
	for _, l := range v.Lines {
		fmt.Fprintf(w, "%2d. %s\n", l.Index, l.Summary)
		fmt.Fprintf(w, "    %s\n", l.Source)
	}

	if v.Pages > 1 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Page %d of %d  %s\n", v.Current, v.Pages, pageLinks(v))
	}
}

func pageLinks(v results.View) string {
	links := make([]string, 0, len(v.Window)+2)
	if v.CanPrev {
		links = append(links, "«")
	}
	for _, n := range v.Window {
		if n == v.Current {
			links = append(links, fmt.Sprintf("[%d]", n))
		} else {
			links = append(links, strconv.Itoa(n))
		}
	}
	if v.CanNext {
		links = append(links, "»")
	}
	return strings.Join(links, " ")
}

func printDetail(w io.Writer, v results.View, index int) error {
	if index < 1 || index > len(v.Lines) {
		return fmt.Errorf("no event %d on this page", index)
	}

	table := output.NewTable([]string{"Field", "Value"})
	for _, f := range results.Detail(v.Lines[index-1].Event) {
		table.AddRow([]string{f.Label, output.Paint(string(f.Tone), f.Value)})
	}
	fmt.Fprintln(w)
	table.RenderTo(w)
	return nil
}

const navigatorHelp = "n next, p previous, f first, l last, <number> go to page, v <i> view event, q quit"

// navigate runs the interactive pager until q or end of input.
func navigate(in io.Reader, w io.Writer, sess *session.Session) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(w, "\n%s\n> ", navigatorHelp)
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var moved bool
		switch cmd := strings.ToLower(fields[0]); cmd {
		case "q", "quit", "exit":
			return nil
		case "n", "next":
			moved = sess.Navigate((*results.Pager).Next)
		case "p", "prev":
			moved = sess.Navigate((*results.Pager).Prev)
		case "f", "first":
			moved = sess.Navigate((*results.Pager).First)
		case "l", "last":
			moved = sess.Navigate((*results.Pager).Last)
		case "v", "view":
			if len(fields) < 2 {
				fmt.Fprintln(w, "usage: v <i>")
				continue
			}
			i, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Fprintf(w, "invalid event index %q\n", fields[1])
				continue
			}
			if err := printDetail(w, sess.View(), i); err != nil {
				fmt.Fprintln(w, err)
			}
			continue
		default:
			n, err := strconv.Atoi(cmd)
			if err != nil {
				fmt.Fprintf(w, "unknown command %q\n", cmd)
				continue
			}
			moved = sess.Navigate(func(p *results.Pager) bool { return p.Goto(n) })
		}

		if moved {
			fmt.Fprintln(w)
			printView(w, sess.View())
		}
	}
}
