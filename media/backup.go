package media

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Backup copies the uploads directory into a timestamped folder once a day
// and removes copies older than Retain.
type Backup struct {
	Src    string
	Dest   string
	Retain time.Duration
	Hour   int
	now    func() time.Time
}

func NewBackup(src, dest string, retain time.Duration, hour int) *Backup {
	return &Backup{Src: src, Dest: dest, Retain: retain, Hour: hour, now: time.Now}
}

// NextRun returns the next occurrence of b.Hour:00 strictly after now.
func (b *Backup) NextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), b.Hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// Run blocks until ctx is done, backing up at the fixed hour each day.
func (b *Backup) Run(ctx context.Context) {
	for {
		next := b.NextRun(b.now())
		log.Printf("⏳ Next image backup scheduled at: %s", next.Format("2006-01-02 15:04:05"))

		timer := time.NewTimer(next.Sub(b.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if dest, err := b.Snapshot(); err != nil {
			log.Printf("❌ Failed to back up images: %v", err)
		} else {
			log.Printf("✅ Images backed up to %s", dest)
		}
		b.Cleanup()
	}
}

// Snapshot copies Src into a new folder under Dest and returns its path.
func (b *Backup) Snapshot() (string, error) {
	destDir := filepath.Join(b.Dest, b.now().Format("2006-01-02_15-04-05"))
	return destDir, copyDir(b.Src, destDir)
}

// Cleanup removes backup folders older than Retain.
func (b *Backup) Cleanup() {
	entries, err := os.ReadDir(b.Dest)
	if err != nil {
		log.Printf("❌ Failed to read backup directory: %v", err)
		return
	}

	cutoff := b.now().Add(-b.Retain)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(b.Dest, entry.Name())
		info, err := os.Stat(folderPath)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(folderPath); err != nil {
				log.Printf("❌ Failed to remove old backup %s: %v", folderPath, err)
			} else {
				log.Printf("🗑️ Removed old backup: %s", folderPath)
			}
		}
	}
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			err = copyDir(srcPath, destPath)
		} else {
			err = copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
