package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/bhavyashah81/SecureVault/internal/application"
	"github.com/bhavyashah81/SecureVault/internal/crypto"
	"github.com/bhavyashah81/SecureVault/internal/domain/model"
	"github.com/bhavyashah81/SecureVault/internal/domain/port/driven"
	"github.com/bhavyashah81/SecureVault/internal/password"
)

var menuOptions = []string{
	"Add Credential",
	"List All Credentials",
	"Search Credentials",
	"Update Credential",
	"Delete Credential",
	"Copy Password to Clipboard",
	"Generate Password",
	"Change Master Password",
	"Export Credentials",
	"Save and Exit",
}

// App drives the interactive session: unlock, menu loop, save on exit.
type App struct {
	vault          *application.VaultService
	clipboard      driven.Clipboard
	generator      *password.Generator
	prompt         *Prompter
	out            io.Writer
	clipboardClear time.Duration
	maxAttempts    int
	now            func() time.Time
}

// NewApp wires the interactive interface to the vault service and its
// collaborators. Input is read from in and everything is printed to out.
func NewApp(
	vault *application.VaultService,
	clipboard driven.Clipboard,
	generator *password.Generator,
	in io.Reader,
	out io.Writer,
	clipboardClear time.Duration,
	maxUnlockAttempts int,
) *App {
	return &App{
		vault:          vault,
		clipboard:      clipboard,
		generator:      generator,
		prompt:         NewPrompter(in, out),
		out:            out,
		clipboardClear: clipboardClear,
		maxAttempts:    maxUnlockAttempts,
		now:            time.Now,
	}
}

// Run executes the whole session. It returns a non-nil error when the vault
// could not be unlocked or when input ends unexpectedly.
func (a *App) Run() error {
	a.banner()

	if err := a.unlock(); err != nil {
		return err
	}

	a.success("Vault unlocked.")
	fmt.Fprintf(a.out, "Total credentials: %d\n", a.vault.Count())

	for {
		choice, err := a.prompt.Menu("SecureVault Main Menu", menuOptions...)
		if err != nil {
			return err
		}

		if choice == len(menuOptions)-1 {
			return a.saveAndExit()
		}

		if err := a.dispatch(choice); err != nil {
			color.New(color.FgRed).Fprintf(a.out, "An error occurred: %v\n", err)
			cont, perr := a.prompt.YesNo("Continue running")
			if perr != nil {
				return perr
			}
			if !cont {
				return a.saveAndExit()
			}
		}
	}
}

func (a *App) dispatch(choice int) error {
	switch choice {
	case 0:
		return a.addCredential()
	case 1:
		return a.listCredentials()
	case 2:
		return a.searchCredentials()
	case 3:
		return a.updateCredential()
	case 4:
		return a.deleteCredential()
	case 5:
		return a.copyPassword()
	case 6:
		return a.generatePassword()
	case 7:
		return a.changeMasterPassword()
	case 8:
		return a.exportCredentials()
	}
	return nil
}

func (a *App) banner() {
	fmt.Fprintln(a.out, strings.Repeat("=", 50))
	color.New(color.FgCyan).Fprintln(a.out, "    Welcome to SecureVault 🔐")
	fmt.Fprintln(a.out, "    Your local encrypted credential store")
	fmt.Fprintln(a.out, strings.Repeat("=", 50))
}

func (a *App) unlock() error {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		pw, err := a.prompt.Masked("Enter master password: ")
		if err != nil {
			return err
		}
		if err := a.vault.Load(pw); err != nil {
			fmt.Fprintf(a.out, "Invalid password. Attempt %d of %d.\n", attempt, a.maxAttempts)
			continue
		}
		return nil
	}

	fmt.Fprintln(a.out, "Maximum attempts exceeded. Access denied.")
	return fmt.Errorf("vault not unlocked after %d attempts", a.maxAttempts)
}

func (a *App) addCredential() error {
	fmt.Fprintln(a.out, "\n--- Add New Credential ---")

	website, err := a.prompt.NonBlank("Website: ")
	if err != nil {
		return err
	}

	if _, found, err := a.vault.FindByWebsite(website); err != nil {
		return err
	} else if found {
		a.warn("A credential for this website already exists!")
		cont, err := a.prompt.YesNo("Add another one anyway")
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}

	username, err := a.prompt.NonBlank("Username: ")
	if err != nil {
		return err
	}

	generate, err := a.prompt.YesNo("Generate a strong password")
	if err != nil {
		return err
	}
	var pw string
	if generate {
		pw, err = a.generateInteractive()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Generated password: %s\n", pw)
	} else {
		pw, err = a.prompt.Masked("Password: ")
		if err != nil {
			return err
		}
	}

	notes, err := a.prompt.Optional("Notes (optional): ")
	if err != nil {
		return err
	}

	if err := a.vault.AddWithNotes(website, username, pw, notes); err != nil {
		a.failure("Could not add credential: %v", err)
		return nil
	}
	a.success("Credential added successfully!")
	return nil
}

func (a *App) listCredentials() error {
	creds, err := a.vault.All()
	if err != nil {
		return err
	}
	if len(creds) == 0 {
		fmt.Fprintln(a.out, "No credentials stored.")
		return nil
	}

	show, err := a.prompt.YesNo("Show passwords")
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nStored credentials (%d):\n", len(creds))
	for i, c := range creds {
		a.writeCredential(i+1, c, show)
		fmt.Fprintf(a.out, "   Created: %s\n", c.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func (a *App) searchCredentials() error {
	term, err := a.prompt.NonBlank("Search term: ")
	if err != nil {
		return err
	}

	matches, err := a.vault.Search(term)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintf(a.out, "No credentials found matching %q.\n", term)
		return nil
	}

	show, err := a.prompt.YesNo("Show passwords")
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nFound %d credential(s):\n", len(matches))
	for i, c := range matches {
		a.writeCredential(i+1, c, show)
	}
	return nil
}

func (a *App) updateCredential() error {
	website, err := a.prompt.NonBlank("Website to update: ")
	if err != nil {
		return err
	}

	cred, found, err := a.vault.FindByWebsite(website)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(a.out, "No credential found for %q.\n", website)
		return nil
	}

	fmt.Fprintln(a.out, "\nCurrent values:")
	a.writeCredential(1, cred, false)
	fmt.Fprintln(a.out, "\nEnter new values (press Enter to keep current):")

	var username, pw, notes *string

	if v, err := a.prompt.Optional("New username: "); err != nil {
		return err
	} else if v != "" {
		username = &v
	}

	changePw, err := a.prompt.YesNo("Change password")
	if err != nil {
		return err
	}
	if changePw {
		generate, err := a.prompt.YesNo("Generate a strong password")
		if err != nil {
			return err
		}
		var v string
		if generate {
			v, err = a.generateInteractive()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Generated password: %s\n", v)
		} else {
			v, err = a.prompt.Masked("New password: ")
			if err != nil {
				return err
			}
		}
		pw = &v
	}

	if v, err := a.prompt.Optional("New notes: "); err != nil {
		return err
	} else if v != "" {
		notes = &v
	}

	updated, err := a.vault.Update(cred.Website, username, pw, notes)
	if err != nil {
		a.failure("Could not update credential: %v", err)
		return nil
	}
	if !updated {
		fmt.Fprintf(a.out, "No credential found for %q.\n", website)
		return nil
	}
	a.success("Credential updated successfully!")
	return nil
}

func (a *App) deleteCredential() error {
	website, err := a.prompt.NonBlank("Website to delete: ")
	if err != nil {
		return err
	}

	cred, found, err := a.vault.FindByWebsite(website)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(a.out, "No credential found for %q.\n", website)
		return nil
	}

	fmt.Fprintln(a.out, "\nAbout to delete:")
	a.writeCredential(1, cred, false)

	sure, err := a.prompt.YesNo("Are you sure you want to delete this credential")
	if err != nil {
		return err
	}
	if !sure {
		fmt.Fprintln(a.out, "Deletion cancelled.")
		return nil
	}

	if _, err := a.vault.Remove(website); err != nil {
		return err
	}
	a.success("Credential deleted successfully!")
	return nil
}

func (a *App) copyPassword() error {
	website, err := a.prompt.NonBlank("Website: ")
	if err != nil {
		return err
	}

	cred, found, err := a.vault.FindByWebsite(website)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(a.out, "No credential found for %q.\n", website)
		return nil
	}

	if err := a.clipboard.CopyWithClear(cred.Password, a.clipboardClear); err != nil {
		a.failure("Could not copy to clipboard: %v", err)
		fmt.Fprintf(a.out, "Password: %s\n", cred.Password)
		return nil
	}
	a.success("Password copied to clipboard.")
	fmt.Fprintf(a.out, "It will be cleared in %d seconds.\n", int(a.clipboardClear.Seconds()))
	return nil
}

func (a *App) generatePassword() error {
	pw, err := a.generateInteractive()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nGenerated password: %s\n", pw)
	score := password.Evaluate(pw)
	fmt.Fprintf(a.out, "Password strength: %d/100 (%s)\n", score, password.Label(score))

	copyIt, err := a.prompt.YesNo("Copy to clipboard")
	if err != nil {
		return err
	}
	if copyIt {
		if err := a.clipboard.CopyWithClear(pw, a.clipboardClear); err != nil {
			a.failure("Could not copy to clipboard: %v", err)
			return nil
		}
		a.success("Password copied to clipboard.")
		fmt.Fprintf(a.out, "It will be cleared in %d seconds.\n", int(a.clipboardClear.Seconds()))
	}
	return nil
}

func (a *App) changeMasterPassword() error {
	current, err := a.prompt.Masked("Current master password: ")
	if err != nil {
		return err
	}
	next, err := a.prompt.Masked("New master password: ")
	if err != nil {
		return err
	}
	confirm, err := a.prompt.Masked("Confirm new master password: ")
	if err != nil {
		return err
	}
	if next != confirm {
		a.failure("Passwords do not match!")
		return nil
	}

	if err := a.vault.ChangeMasterPassword(current, next); err != nil {
		if errors.Is(err, crypto.ErrWrongPasswordOrCorrupt) {
			a.failure("Current password is incorrect.")
			return nil
		}
		return err
	}
	a.success("Master password changed successfully!")
	return nil
}

func (a *App) exportCredentials() error {
	filename, err := a.prompt.Line("Export filename (press Enter for default): ")
	if err != nil {
		return err
	}
	if strings.TrimSpace(filename) == "" {
		filename = "securevault_export_" + a.now().Format("20060102_150405") + ".txt"
	}

	include, err := a.prompt.YesNo("Include passwords in export (WARNING: unencrypted!)")
	if err != nil {
		return err
	}

	if err := a.vault.ExportToFile(filename, include); err != nil {
		a.failure("Export failed: %v", err)
		return nil
	}
	a.success("Credentials exported to: %s", filename)
	if include {
		a.warn("The export contains passwords in plain text. Store it carefully!")
	}
	return nil
}

func (a *App) saveAndExit() error {
	fmt.Fprintln(a.out, "\nSaving credentials...")
	for {
		pw, err := a.prompt.Masked("Enter master password to save: ")
		if err != nil {
			return err
		}
		if err := a.vault.Save(pw); err != nil {
			a.failure("Failed to save credentials: %v", err)
			retry, perr := a.prompt.YesNo("Try again")
			if perr != nil {
				return perr
			}
			if retry {
				continue
			}
			a.warn("Exiting without saving. Changes from this session are lost.")
			break
		}
		a.success("Credentials saved successfully!")
		break
	}
	fmt.Fprintln(a.out, "Thank you for using SecureVault! 🔐")
	return nil
}

// generateInteractive asks for generation settings and returns a password.
// Lowercase letters are always included.
func (a *App) generateInteractive() (string, error) {
	length, err := a.prompt.Int("Password length (8-128): ", 8, 128)
	if err != nil {
		return "", err
	}
	upper, err := a.prompt.YesNo("Include uppercase letters")
	if err != nil {
		return "", err
	}
	digits, err := a.prompt.YesNo("Include numbers")
	if err != nil {
		return "", err
	}
	symbols, err := a.prompt.YesNo("Include symbols")
	if err != nil {
		return "", err
	}
	return a.generator.Simple(length, symbols, digits, upper)
}

func (a *App) writeCredential(index int, c model.Credential, show bool) {
	pw := c.MaskedPassword()
	if show {
		pw = c.Password
	}
	fmt.Fprintf(a.out, "%d. Website: %s | Username: %s | Password: %s\n", index, c.Website, c.Username, pw)
	if strings.TrimSpace(c.Notes) != "" {
		fmt.Fprintf(a.out, "   Notes: %s\n", c.Notes)
	}
}

func (a *App) success(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(a.out, "✓ "+format+"\n", args...)
}

func (a *App) failure(format string, args ...any) {
	color.New(color.FgRed).Fprintf(a.out, "✗ "+format+"\n", args...)
}

func (a *App) warn(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(a.out, "Warning: "+format+"\n", args...)
}
