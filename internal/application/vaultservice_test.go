package application

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhavyashah81/SecureVault/internal/crypto"
	"github.com/bhavyashah81/SecureVault/internal/domain/model"
	"github.com/bhavyashah81/SecureVault/internal/domain/port/driven"
)

var (
	_ driven.VaultStore   = (*memStore)(nil)
	_ driven.ExportWriter = (*memExporter)(nil)
)

// memStore is an in-memory VaultStore that checks the save password on load
// the way the encrypted file store does.
type memStore struct {
	saved     *model.Vault
	savedPw   string
	saveCalls int
	saveErr   error
}

func (m *memStore) Exists() bool {
	return m.saved != nil
}

func (m *memStore) Load(password string) (model.Vault, error) {
	if password != m.savedPw {
		return model.Vault{}, crypto.ErrWrongPasswordOrCorrupt
	}
	return *m.saved, nil
}

func (m *memStore) Save(vault model.Vault, password string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := vault
	cp.Credentials = append([]model.Credential(nil), vault.Credentials...)
	m.saved = &cp
	m.savedPw = password
	m.saveCalls++
	return nil
}

type memExporter struct {
	path string
	data []byte
	err  error
}

func (m *memExporter) WriteExport(path string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.path = path
	m.data = data
	return nil
}

var serviceClock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// newLoadedService returns a service unlocked with master password "master"
// on a fresh store, with the clock pinned to serviceClock.
func newLoadedService(t *testing.T) (*VaultService, *memStore, *memExporter) {
	t.Helper()
	store := &memStore{}
	exporter := &memExporter{}
	s := NewVaultService(store, exporter)
	s.now = func() time.Time { return serviceClock }
	require.NoError(t, s.Load("master"))
	return s, store, exporter
}

func TestVaultService_OperationsRequireLoad(t *testing.T) {
	s := NewVaultService(&memStore{}, &memExporter{})

	assert.False(t, s.IsLoaded())
	assert.Zero(t, s.Count())

	tests := []struct {
		name string
		op   func() error
	}{
		{name: "add", op: func() error { return s.Add("w", "u", "p") }},
		{name: "add with notes", op: func() error { return s.AddWithNotes("w", "u", "p", "n") }},
		{name: "save", op: func() error { return s.Save("pw") }},
		{name: "all", op: func() error { _, err := s.All(); return err }},
		{name: "search", op: func() error { _, err := s.Search(""); return err }},
		{name: "find", op: func() error { _, _, err := s.FindByWebsite("w"); return err }},
		{name: "update", op: func() error { _, err := s.Update("w", nil, nil, nil); return err }},
		{name: "remove", op: func() error { _, err := s.Remove("w"); return err }},
		{name: "change master password", op: func() error { return s.ChangeMasterPassword("a", "b") }},
		{name: "export", op: func() error { return s.ExportToFile("out.txt", false) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.op(), ErrNotLoaded)
		})
	}
}

func TestVaultService_FirstRunCreatesValidator(t *testing.T) {
	s, _, _ := newLoadedService(t)

	assert.True(t, s.IsLoaded())
	assert.Zero(t, s.Count())
	require.NotEmpty(t, s.validator)
	assert.True(t, crypto.VerifyValidator(s.validator, "master"))
	assert.False(t, crypto.VerifyValidator(s.validator, "other"))
}

func TestVaultService_AddAndFind(t *testing.T) {
	s, _, _ := newLoadedService(t)

	require.NoError(t, s.Add("github.com", "octocat", "hunter2"))
	require.NoError(t, s.AddWithNotes("example.org", "alice", "s3cret", "personal"))
	assert.Equal(t, 2, s.Count())

	cred, ok, err := s.FindByWebsite("GITHUB.COM")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "octocat", cred.Username)
	assert.Equal(t, "hunter2", cred.Password)
	assert.Equal(t, serviceClock, cred.CreatedAt)
	assert.Equal(t, serviceClock, cred.LastModified)
	assert.Empty(t, cred.Notes)

	_, ok, err = s.FindByWebsite("missing.net")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVaultService_AddRejectsReservedCharacters(t *testing.T) {
	s, _, _ := newLoadedService(t)

	tests := []struct {
		name                               string
		website, username, password, notes string
	}{
		{name: "pipe in website", website: "a|b.com", username: "u", password: "p"},
		{name: "newline in username", website: "a.com", username: "u\nser", password: "p"},
		{name: "carriage return in password", website: "a.com", username: "u", password: "p\rw"},
		{name: "pipe in notes", website: "a.com", username: "u", password: "p", notes: "x|y"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := s.AddWithNotes(tc.website, tc.username, tc.password, tc.notes)
			require.ErrorIs(t, err, ErrInvalidField)
		})
	}
	assert.Zero(t, s.Count())
}

func TestVaultService_SaveAndReload(t *testing.T) {
	s, store, _ := newLoadedService(t)
	require.NoError(t, s.AddWithNotes("github.com", "octocat", "hunter2", "work"))
	require.NoError(t, s.Save("master"))
	require.Equal(t, 1, store.saveCalls)

	// A second service on the same store must reject the wrong password,
	// stay unloaded, and still succeed on retry with the right one.
	s2 := NewVaultService(store, &memExporter{})
	err := s2.Load("wrong")
	require.ErrorIs(t, err, crypto.ErrWrongPasswordOrCorrupt)
	assert.False(t, s2.IsLoaded())

	require.NoError(t, s2.Load("master"))
	creds, err := s2.All()
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "octocat", creds[0].Username)
	assert.Equal(t, "work", creds[0].Notes)
}

func TestVaultService_Search(t *testing.T) {
	s, _, _ := newLoadedService(t)
	require.NoError(t, s.Add("github.com", "octocat", "pw1"))
	require.NoError(t, s.AddWithNotes("gitlab.com", "alice", "pw2", "work forge"))
	require.NoError(t, s.Add("bank.example", "bob", "pw3"))

	tests := []struct {
		name string
		term string
		want int
	}{
		{name: "website substring", term: "git", want: 2},
		{name: "username", term: "ALICE", want: 1},
		{name: "notes", term: "forge", want: 1},
		{name: "empty matches all", term: "", want: 3},
		{name: "blank matches all", term: "   ", want: 3},
		{name: "password never matches", term: "pw1", want: 0},
		{name: "no hit", term: "zzz", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Search(tc.term)
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestVaultService_Update(t *testing.T) {
	s, _, _ := newLoadedService(t)
	require.NoError(t, s.AddWithNotes("github.com", "octocat", "old-pw", "old note"))

	later := serviceClock.Add(time.Hour)
	s.now = func() time.Time { return later }

	newPw := "new-pw"
	found, err := s.Update("GitHub.com", nil, &newPw, nil)
	require.NoError(t, err)
	require.True(t, found)

	cred, ok, err := s.FindByWebsite("github.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "octocat", cred.Username)
	assert.Equal(t, "new-pw", cred.Password)
	assert.Equal(t, "old note", cred.Notes)
	assert.Equal(t, serviceClock, cred.CreatedAt)
	assert.Equal(t, later, cred.LastModified)
}

func TestVaultService_UpdateAllNilKeepsModificationTime(t *testing.T) {
	s, _, _ := newLoadedService(t)
	require.NoError(t, s.Add("github.com", "octocat", "pw"))

	s.now = func() time.Time { return serviceClock.Add(time.Hour) }

	found, err := s.Update("github.com", nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, found)

	cred, _, err := s.FindByWebsite("github.com")
	require.NoError(t, err)
	assert.Equal(t, serviceClock, cred.LastModified)
}

func TestVaultService_UpdateMissing(t *testing.T) {
	s, _, _ := newLoadedService(t)

	found, err := s.Update("nowhere.com", nil, nil, nil)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestVaultService_UpdateRejectsReservedCharacters(t *testing.T) {
	s, _, _ := newLoadedService(t)
	require.NoError(t, s.Add("github.com", "octocat", "pw"))

	bad := "with|pipe"
	_, err := s.Update("github.com", &bad, nil, nil)
	require.ErrorIs(t, err, ErrInvalidField)

	cred, _, err := s.FindByWebsite("github.com")
	require.NoError(t, err)
	assert.Equal(t, "octocat", cred.Username)
}

func TestVaultService_RemoveDropsAllMatches(t *testing.T) {
	s, _, _ := newLoadedService(t)
	require.NoError(t, s.Add("site.com", "first", "pw1"))
	require.NoError(t, s.Add("SITE.COM", "second", "pw2"))
	require.NoError(t, s.Add("other.com", "third", "pw3"))

	removed, err := s.Remove("Site.Com")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, s.Count())

	removed, err = s.Remove("site.com")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestVaultService_ChangeMasterPassword(t *testing.T) {
	s, store, _ := newLoadedService(t)
	require.NoError(t, s.Add("github.com", "octocat", "pw"))

	err := s.ChangeMasterPassword("wrong", "next")
	require.ErrorIs(t, err, crypto.ErrWrongPasswordOrCorrupt)
	assert.Zero(t, store.saveCalls)

	require.NoError(t, s.ChangeMasterPassword("master", "next"))
	assert.Equal(t, "next", store.savedPw)
	assert.True(t, crypto.VerifyValidator(s.validator, "next"))

	s2 := NewVaultService(store, &memExporter{})
	require.NoError(t, s2.Load("next"))
	assert.Equal(t, 1, s2.Count())
}

func TestVaultService_AllReturnsCopy(t *testing.T) {
	s, _, _ := newLoadedService(t)
	require.NoError(t, s.Add("github.com", "octocat", "pw"))

	creds, err := s.All()
	require.NoError(t, err)
	creds[0].Password = "tampered"

	cred, _, err := s.FindByWebsite("github.com")
	require.NoError(t, err)
	assert.Equal(t, "pw", cred.Password)
}

func TestVaultService_ExportRedactsByDefault(t *testing.T) {
	s, _, exporter := newLoadedService(t)
	require.NoError(t, s.AddWithNotes("github.com", "octocat", "supersecret", "work"))
	require.NoError(t, s.Add("example.org", "alice", "alsosecret"))

	require.NoError(t, s.ExportToFile("report.txt", false))
	require.Equal(t, "report.txt", exporter.path)

	report := string(exporter.data)
	assert.Contains(t, report, "SecureVault Credential Export\n")
	assert.Contains(t, report, "Generated: 2026-03-01T12:00:00Z\n")
	assert.Contains(t, report, "Total Credentials: 2\n")
	assert.Contains(t, report, "Passwords Included: false\n")
	assert.Contains(t, report, "Website: github.com\n")
	assert.Contains(t, report, "Username: octocat\n")
	assert.Contains(t, report, "Password: "+model.PasswordMask+"\n")
	assert.Contains(t, report, "Created: 2026-03-01T12:00:00Z\n")
	assert.Contains(t, report, "Notes: work\n")
	assert.NotContains(t, report, "supersecret")
	assert.NotContains(t, report, "alsosecret")
}

func TestVaultService_ExportCanIncludePasswords(t *testing.T) {
	s, _, exporter := newLoadedService(t)
	require.NoError(t, s.Add("github.com", "octocat", "supersecret"))

	require.NoError(t, s.ExportToFile("report.txt", true))

	report := string(exporter.data)
	assert.Contains(t, report, "Passwords Included: true\n")
	assert.Contains(t, report, "Password: supersecret\n")
	// No notes line for a credential without notes.
	assert.NotContains(t, report, "Notes:")
}

func TestVaultService_ExportFailure(t *testing.T) {
	s, _, exporter := newLoadedService(t)
	exporter.err = errors.New("disk full")

	err := s.ExportToFile("report.txt", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export credentials")
}

func TestVaultService_SaveFailureSurfaces(t *testing.T) {
	s, store, _ := newLoadedService(t)
	store.saveErr = errors.New("disk full")

	err := s.Save("master")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save vault")
}
