package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tosh-hamburg/cookbookApp/internal/quantity"
)

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

type DoctorReport struct {
	OrphanIngredients int `json:"orphan_ingredients"`
	EmptySlots        int `json:"empty_slots"`
	StaleMarks        int `json:"stale_marks"`
	BadAmounts        int `json:"bad_amounts"`
	Fixed             int `json:"fixed,omitempty"`
}

func (r DoctorReport) Healthy() bool {
	return r.OrphanIngredients == 0 && r.EmptySlots == 0 && r.StaleMarks == 0
}

func CreateBackup(dbPath, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(dbPath) == "" {
		return BackupInfo{}, fmt.Errorf("db path is required")
	}
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if err := copyFile(dbPath, outPath); err != nil {
		return BackupInfo{}, err
	}
	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	return BackupInfo{Path: outPath, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("backup path and db path are required")
	}
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("target db already exists; use --force to overwrite")
		}
	}
	checksumFile := backupPath + ".sha256"
	if expected, err := os.ReadFile(checksumFile); err == nil {
		actual, err := fileSHA256(backupPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(expected)) != actual {
			return fmt.Errorf("backup checksum mismatch")
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return copyFile(backupPath, dbPath)
}

func ListBackups(dir string) ([]BackupInfo, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	out := make([]BackupInfo, 0)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".db") {
			continue
		}
		full := filepath.Join(dir, f.Name())
		st, err := os.Stat(full)
		if err != nil {
			continue
		}
		checksum := ""
		if b, err := os.ReadFile(full + ".sha256"); err == nil {
			checksum = strings.TrimSpace(string(b))
		}
		out = append(out, BackupInfo{Path: full, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// RunDoctor counts rows that no longer contribute to any plan: ingredients
// of vanished recipes, slots whose recipe was deleted and shopping marks for
// weeks with nothing planned. Amounts the quantity parser cannot read are
// reported but never touched. With fix the first three are deleted.
func RunDoctor(db *sql.DB, fix bool) (DoctorReport, error) {
	report := DoctorReport{}
	if err := db.QueryRow(`
SELECT COUNT(1) FROM recipe_ingredients i LEFT JOIN recipes r ON r.id = i.recipe_id WHERE r.id IS NULL
`).Scan(&report.OrphanIngredients); err != nil {
		return report, fmt.Errorf("doctor orphan ingredient check: %w", err)
	}
	if err := db.QueryRow(`SELECT COUNT(1) FROM meal_slots WHERE recipe_id IS NULL`).Scan(&report.EmptySlots); err != nil {
		return report, fmt.Errorf("doctor empty slot check: %w", err)
	}
	if err := db.QueryRow(`
SELECT COUNT(1) FROM shopping_marks m
WHERE NOT EXISTS (SELECT 1 FROM meal_slots s WHERE s.week_start = m.week_start AND s.recipe_id IS NOT NULL)
`).Scan(&report.StaleMarks); err != nil {
		return report, fmt.Errorf("doctor stale mark check: %w", err)
	}

	rows, err := db.Query(`SELECT amount FROM recipe_ingredients WHERE TRIM(amount) <> ''`)
	if err != nil {
		return report, fmt.Errorf("doctor amount query: %w", err)
	}
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			_ = rows.Close()
			return report, fmt.Errorf("doctor amount scan: %w", err)
		}
		if unreadableAmount(amount) {
			report.BadAmounts++
		}
	}
	_ = rows.Close()

	if fix && !report.Healthy() {
		tx, err := db.Begin()
		if err != nil {
			return report, fmt.Errorf("doctor fix begin tx: %w", err)
		}
		stmts := []string{
			`DELETE FROM recipe_ingredients WHERE recipe_id NOT IN (SELECT id FROM recipes)`,
			`DELETE FROM meal_slots WHERE recipe_id IS NULL`,
			`DELETE FROM shopping_marks WHERE NOT EXISTS (SELECT 1 FROM meal_slots s WHERE s.week_start = shopping_marks.week_start AND s.recipe_id IS NOT NULL)`,
		}
		for _, stmt := range stmts {
			res, err := tx.Exec(stmt)
			if err != nil {
				_ = tx.Rollback()
				return report, fmt.Errorf("doctor fix: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				_ = tx.Rollback()
				return report, fmt.Errorf("doctor fix rows affected: %w", err)
			}
			report.Fixed += int(n)
		}
		if err := tx.Commit(); err != nil {
			return report, fmt.Errorf("doctor fix commit: %w", err)
		}
	}

	return report, nil
}

// unreadableAmount flags amounts like "1.2.3 g" that start with a number the
// parser reads as zero.
func unreadableAmount(amount string) bool {
	amount = strings.TrimSpace(amount)
	if amount == "" || amount[0] < '0' || amount[0] > '9' {
		return false
	}
	if quantity.Parse(amount).Value != 0 {
		return false
	}
	rest := strings.TrimLeft(amount, "0.,")
	return rest != "" && rest[0] >= '0' && rest[0] <= '9'
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync destination file: %w", err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
