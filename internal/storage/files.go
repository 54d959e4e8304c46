package storage

import (
	"errors"
	"fmt"

	"home-library/internal/model"
)

// CredentialKey is the key under which the Gemini API key is stored.
const CredentialKey = "gemini_api_key"

// BookFile holds the catalog: an ordered array of books.
type BookFile struct {
	*JSONFile
}

func NewBookFile(path string) *BookFile {
	return &BookFile{JSONFile: NewJSONFile(path)}
}

// LoadBooks returns the catalog. A missing file yields an empty catalog;
// duplicate ids are reported as ErrCorrupt.
func (f *BookFile) LoadBooks() ([]model.Book, error) {
	var books []model.Book
	if err := f.Load(&books); err != nil {
		if errors.Is(err, ErrNotExist) {
			return []model.Book{}, nil
		}
		return nil, err
	}
	seen := make(map[int]bool, len(books))
	for _, b := range books {
		if seen[b.ID] {
			return nil, fmt.Errorf("%s: %w: duplicate book id %d", f.Path(), ErrCorrupt, b.ID)
		}
		seen[b.ID] = true
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

func (f *BookFile) SaveBooks(books []model.Book) error {
	if books == nil {
		books = []model.Book{}
	}
	return f.Save(books)
}

// StateFile holds the reading state.
type StateFile struct {
	*JSONFile
}

func NewStateFile(path string) *StateFile {
	return &StateFile{JSONFile: NewJSONFile(path)}
}

// LoadState returns the reading state, or the empty default when the file is missing.
func (f *StateFile) LoadState() (*model.ReadingState, error) {
	state := &model.ReadingState{}
	if err := f.Load(state); err != nil {
		if errors.Is(err, ErrNotExist) {
			return model.NewReadingState(), nil
		}
		return nil, err
	}
	state.Normalize()
	return state, nil
}

func (f *StateFile) SaveState(state *model.ReadingState) error {
	state.Normalize()
	return f.Save(state)
}

// CredentialFile holds the stored API key.
type CredentialFile struct {
	*JSONFile
}

func NewCredentialFile(path string) *CredentialFile {
	return &CredentialFile{JSONFile: NewJSONFile(path)}
}

// LoadKey returns the stored key, or "" when the file is missing.
func (f *CredentialFile) LoadKey() (string, error) {
	data := map[string]string{}
	if err := f.Load(&data); err != nil {
		if errors.Is(err, ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return data[CredentialKey], nil
}

func (f *CredentialFile) SaveKey(key string) error {
	return f.Save(map[string]string{CredentialKey: key})
}
