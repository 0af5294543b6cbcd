package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/services"
	"github.com/yeremiapane/beartracks/store"
)

func newFlagSet(e *cliEnv, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

func required(e *cliEnv, fs *flag.FlagSet, names ...string) error {
	var missing []string
	for _, name := range names {
		if f := fs.Lookup(name); f != nil && strings.TrimSpace(f.Value.String()) == "" {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	_, _ = fmt.Fprintf(e.stderr, "Error: %s required\n", strings.Join(missing, ", "))
	return errUsage
}

func printJSON(e *cliEnv, v interface{}) error {
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runSignup(e *cliEnv, args []string) error {
	fs := newFlagSet(e, "signup")
	var in services.SignupInput
	fs.StringVar(&in.Email, "email", "", "email address (required)")
	fs.StringVar(&in.Password, "password", "", "password (required)")
	fs.StringVar(&in.Name, "name", "", "display name (required)")
	fs.StringVar(&in.GradeLevel, "grade", "", "grade level: "+strings.Join(models.GradeLevels, ", "))
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(e, fs, "email", "password", "name", "grade"); err != nil {
		return err
	}

	user, err := e.svc.Users.Signup(in)
	if err != nil {
		return err
	}
	if err := e.session.Login(user); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "Welcome, %s! You are logged in as a %s.\n", user.Name, user.Role)
	return nil
}

func runLogin(e *cliEnv, args []string) error {
	fs := newFlagSet(e, "login")
	email := fs.String("email", "", "email address (required)")
	password := fs.String("password", "", "password (required)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(e, fs, "email", "password"); err != nil {
		return err
	}

	user, err := e.svc.Users.Login(*email, *password)
	if err != nil {
		return err
	}
	if err := e.session.Login(user); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "Logged in as %s (%s).\n", user.Name, user.Role)
	return nil
}

func runLogout(e *cliEnv, args []string) error {
	if err := parse(newFlagSet(e, "logout"), args); err != nil {
		return err
	}
	if err := e.session.Logout(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(e.stdout, "Logged out.")
	return nil
}

func runWhoami(e *cliEnv, args []string) error {
	if err := parse(newFlagSet(e, "whoami"), args); err != nil {
		return err
	}
	user, err := e.session.RequireUser()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "%s <%s>\n%s, %s\n", user.Name, user.Email, user.GradeLevel, user.Role)
	return nil
}

func runItems(e *cliEnv, args []string) error {
	fs := newFlagSet(e, "items")
	var f services.BrowseFilter
	fs.StringVar(&f.Search, "q", "", "search title and description")
	fs.StringVar(&f.Category, "category", "", "only this category")
	fs.StringVar(&f.Location, "location", "", "only this location")
	fs.StringVar(&f.Sort, "sort", services.SortNewest, "newest, oldest or title")
	all := fs.Bool("all", false, "every item whatever its status (admin)")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := parse(fs, args); err != nil {
		return err
	}

	var items []models.FoundItem
	if *all {
		if _, err := e.session.RequireAdmin(); err != nil {
			return err
		}
		items = e.svc.Items.List()
	} else {
		items = e.svc.Items.Browse(f)
	}

	if *asJSON {
		return printJSON(e, items)
	}
	if len(items) == 0 {
		_, _ = fmt.Fprintln(e.stdout, "No items found.")
		return nil
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tLOCATION\tFOUND\tSTATUS")
	for _, item := range items {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", item.ID, item.Title, item.Category, item.Location, item.DateFound, item.Status)
	}
	return tw.Flush()
}

func runSubmit(e *cliEnv, args []string) error {
	fs := newFlagSet(e, "submit")
	var in services.ItemInput
	fs.StringVar(&in.Title, "title", "", "what was found (required)")
	fs.StringVar(&in.Description, "description", "", "details that help the owner recognise it")
	fs.StringVar(&in.Category, "category", "", "one of: "+strings.Join(models.Categories, ", "))
	fs.StringVar(&in.Location, "location", "", "one of: "+strings.Join(models.Locations, ", "))
	fs.StringVar(&in.DateFound, "date", time.Now().Format(models.DateFoundLayout), "date found, YYYY-MM-DD")
	photos := fs.String("photos", "", "comma separated photo URLs")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(e, fs, "title", "category", "location"); err != nil {
		return err
	}

	user, err := e.session.RequireUser()
	if err != nil {
		return err
	}
	for _, p := range strings.Split(*photos, ",") {
		if p = strings.TrimSpace(p); p != "" {
			in.Photos = append(in.Photos, p)
		}
	}

	item, err := e.svc.Items.Submit(user.ID, in)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "Item %s submitted: %s\n", item.ID, item.Title)
	return nil
}

func runClaim(e *cliEnv, args []string) error {
	fs := newFlagSet(e, "claim")
	itemID := fs.String("item", "", "item id (required)")
	var in services.ClaimInput
	fs.StringVar(&in.Message, "message", "", "why the item is yours (required)")
	fs.StringVar(&in.ContactInfo, "contact", "", "how to reach you (required)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(e, fs, "item", "message", "contact"); err != nil {
		return err
	}

	user, err := e.session.RequireUser()
	if err != nil {
		return err
	}
	claim, err := e.svc.Claims.Submit(user, *itemID, in)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "Claim %s submitted. You will be notified when an admin reviews it.\n", claim.ID)
	return nil
}

func runClaims(e *cliEnv, args []string) error {
	fs := newFlagSet(e, "claims")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := parse(fs, args); err != nil {
		return err
	}

	user, err := e.session.RequireUser()
	if err != nil {
		return err
	}
	var claims []services.ClaimView
	if user.IsAdmin() {
		claims = e.svc.Claims.Pending()
	} else {
		claims = e.svc.Claims.ByClaimant(user.ID)
	}

	if *asJSON {
		return printJSON(e, claims)
	}
	if len(claims) == 0 {
		_, _ = fmt.Fprintln(e.stdout, "No claims.")
		return nil
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tITEM\tCLAIMANT\tSTATUS\tMESSAGE")
	for _, c := range claims {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.ItemTitle, c.ClaimantName, c.Status, c.Message)
	}
	return tw.Flush()
}

func runNotifications(e *cliEnv, args []string) error {
	fs := newFlagSet(e, "notifications")
	readAll := fs.Bool("read-all", false, "mark every notification as read")
	read := fs.String("read", "", "mark one notification as read")
	remove := fs.String("delete", "", "delete one notification")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := parse(fs, args); err != nil {
		return err
	}

	user, err := e.session.RequireUser()
	if err != nil {
		return err
	}
	ns := e.svc.Notifications

	switch {
	case *readAll:
		if err := ns.MarkAllRead(user.ID); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(e.stdout, "All notifications marked as read.")
		return nil
	case *read != "":
		if err := ns.MarkRead(*read, user.ID); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(e.stdout, "Notification marked as read.")
		return nil
	case *remove != "":
		if err := ns.Delete(*remove, user.ID); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(e.stdout, "Notification deleted.")
		return nil
	}

	notes := ns.ForUser(user.ID)
	if *asJSON {
		return printJSON(e, notes)
	}
	_, _ = fmt.Fprintf(e.stdout, "%d unread\n", ns.UnreadCount(user.ID))
	for _, n := range notes {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		_, _ = fmt.Fprintf(e.stdout, "%s %s  %s  %s\n    %s\n", marker, n.ID, n.CreatedAt.Local().Format("2006-01-02 15:04"), n.Title, n.Message)
	}
	return nil
}

func runApprove(e *cliEnv, args []string) error {
	fs := newFlagSet(e, "approve")
	claimID := fs.String("claim", "", "claim to approve")
	itemID := fs.String("item", "", "item to mark available")
	var in services.ApproveInput
	fs.StringVar(&in.PickupLocation, "pickup", "", "pickup location (default "+services.DefaultPickupLocation+")")
	fs.StringVar(&in.AdminNote, "note", "", "note for the claimant")
	if err := parse(fs, args); err != nil {
		return err
	}
	if (*claimID == "") == (*itemID == "") {
		_, _ = fmt.Fprintln(e.stderr, "Error: specify exactly one of --claim or --item")
		return errUsage
	}

	if _, err := e.session.RequireAdmin(); err != nil {
		return err
	}

	if *itemID != "" {
		item, err := e.svc.Items.Approve(*itemID)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(e.stdout, "Item %s is %s.\n", item.ID, item.Status)
		return nil
	}

	claim, err := e.svc.Claims.Approve(*claimID, in)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "Claim %s approved. Pickup at %s.\n", claim.ID, claim.PickupLocation)
	return nil
}

func runDeny(e *cliEnv, args []string) error {
	fs := newFlagSet(e, "deny")
	claimID := fs.String("claim", "", "claim to deny (required)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(e, fs, "claim"); err != nil {
		return err
	}

	if _, err := e.session.RequireAdmin(); err != nil {
		return err
	}
	claim, err := e.svc.Claims.Deny(*claimID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "Claim %s denied.\n", claim.ID)
	return nil
}

func runExport(e *cliEnv, args []string) error {
	fs := newFlagSet(e, "export")
	out := fs.String("out", "", "write to this file instead of stdout")
	if err := parse(fs, args); err != nil {
		return err
	}
	if _, err := e.session.RequireAdmin(); err != nil {
		return err
	}

	snap := store.Export(e.store)
	if *out == "" {
		return printJSON(e, snap)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "Exported %d users, %d items, %d claims, %d notifications to %s\n",
		len(snap.Users), len(snap.Items), len(snap.Claims), len(snap.Notifications), *out)
	return nil
}

// runImport replaces the store's contents. A store that already has accounts
// can only be replaced by a logged-in admin. An empty store accepts the
// import without a login so a fresh install can be seeded.
func runImport(e *cliEnv, args []string) error {
	fs := newFlagSet(e, "import")
	in := fs.String("in", "", "snapshot file written by export (required)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(e, fs, "in"); err != nil {
		return err
	}
	if len(e.store.GetUsers()) > 0 {
		if _, err := e.session.RequireAdmin(); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if len(snap.Users) == 0 && len(snap.Items) == 0 && len(snap.Claims) == 0 && len(snap.Notifications) == 0 {
		return errors.New("snapshot is empty, refusing to wipe the store")
	}
	if err := store.Import(e.store, snap); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "Imported %d users, %d items, %d claims, %d notifications\n",
		len(snap.Users), len(snap.Items), len(snap.Claims), len(snap.Notifications))
	return nil
}
