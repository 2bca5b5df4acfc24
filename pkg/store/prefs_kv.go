package store

import (
	"errors"

	"fyne.io/fyne/v2"
)

// PrefsKV stores records in the Fyne preferences of the running app.
// Preferences belong to a single process, so Update needs no locking beyond
// the caller's.
type PrefsKV struct {
	prefs fyne.Preferences
}

// NewPrefsKV creates a KV backed by the given preferences
func NewPrefsKV(prefs fyne.Preferences) *PrefsKV {
	return &PrefsKV{prefs: prefs}
}

func (p *PrefsKV) Get(key string) (string, error) {
	return p.prefs.String(key), nil
}

func (p *PrefsKV) Set(key, value string) error {
	p.prefs.SetString(key, value)
	return nil
}

func (p *PrefsKV) Remove(key string) error {
	p.prefs.RemoveValue(key)
	return nil
}

func (p *PrefsKV) Update(key string, fn UpdateFunc) error {
	value, err := fn(p.prefs.String(key))
	if errors.Is(err, ErrUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	p.prefs.SetString(key, value)
	return nil
}
