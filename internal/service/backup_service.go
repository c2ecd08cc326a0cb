package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"carevoice/internal/models"
	"carevoice/internal/store"
)

// BackupData bundles every durable store into one portable document.
type BackupData struct {
	Version     string                        `json:"version"`
	ExportedAt  time.Time                     `json:"exported_at"`
	Users       map[string]*models.User       `json:"users"`
	Events      []models.Event                `json:"events"`
	Invitations map[string]*models.Invitation `json:"invitations"`
}

// BackupService exports and restores the JSON stores as a single document.
type BackupService struct {
	users       *store.UserStore
	events      *store.EventStore
	invitations *store.InvitationStore
}

// NewBackupService creates a new backup service
func NewBackupService(users *store.UserStore, events *store.EventStore, invitations *store.InvitationStore) *BackupService {
	return &BackupService{
		users:       users,
		events:      events,
		invitations: invitations,
	}
}

// Export writes a complete backup of all stores to a file.
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting store export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Stores exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter writes a complete backup to an io.Writer.
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:     "1.0",
		ExportedAt:  time.Now(),
		Users:       s.users.All(),
		Events:      s.events.Recent(0),
		Invitations: s.invitations.All(),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d users, %d events, %d invitations",
		len(backup.Users), len(backup.Events), len(backup.Invitations))
	return nil
}

// Import restores all stores from a backup file, replacing their contents.
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting store import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores all stores from a backup reader.
func (s *BackupService) ImportFromReader(r io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	s.users.Replace(backup.Users)
	s.events.Replace(backup.Events, time.Now())
	s.invitations.Replace(backup.Invitations)

	log.Printf("Imported: %d users, %d events, %d invitations",
		len(backup.Users), len(backup.Events), len(backup.Invitations))
	return nil
}
