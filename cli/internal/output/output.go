package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/photoapp/photoapp/cli/internal/api"
	"github.com/photoapp/photoapp/cli/internal/session"
)

// JSON prints v as indented JSON.
func JSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func UserTable(w io.Writer, users []api.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "no users")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "USERID\tUSERNAME\tNAME\tEMAIL\tFOLDER")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s %s\t%s\t%s\n", u.UserID, u.Username, u.FirstName, u.LastName, u.Email, u.BucketFolder)
	}
	tw.Flush()
}

func AssetTable(w io.Writer, assets []api.Asset) {
	if len(assets) == 0 {
		fmt.Fprintln(w, "no assets")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ASSETID\tOWNER\tNAME\tTYPE\tKEY")
	for _, a := range assets {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", a.AssetID, a.UserID, a.AssetName, a.AssetType, a.BucketKey)
	}
	tw.Flush()
}

func LikeTable(w io.Writer, likes []api.Like) {
	if len(likes) == 0 {
		fmt.Fprintln(w, "no likes")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "LIKEID\tUSERID")
	for _, l := range likes {
		fmt.Fprintf(tw, "%d\t%d\n", l.LikeID, l.UserID)
	}
	tw.Flush()
}

func CommentTable(w io.Writer, comments []api.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(w, "no comments")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "COMMENTID\tUSERID\tWHEN\tCOMMENT")
	for _, c := range comments {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", c.CommentID, c.UserID, RelativeTime(c.Created), c.Comment)
	}
	tw.Flush()
}

// SessionTable marks the active session with an asterisk. Tokens are never printed.
func SessionTable(w io.Writer, sessions []session.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "no sessions")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ACTIVE\tUSERNAME")
	for _, s := range sessions {
		marker := ""
		if s.Active {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\n", marker, s.Username)
	}
	tw.Flush()
}

// FormatSize converts bytes to a human-readable string.
func FormatSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// RelativeTime formats a timestamp relative to now (e.g. "2h ago", "3d ago").
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
