// Package seed loads YAML fixtures of users and startup calls into the database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"startuphub/models"
	"startuphub/services"
)

type Fixture struct {
	Users []User `yaml:"users"`
	Calls []Call `yaml:"startup_calls"`
}

type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type Call struct {
	Title               string    `yaml:"title"`
	Description         string    `yaml:"description"`
	Industry            string    `yaml:"industry"`
	Location            string    `yaml:"location"`
	Status              string    `yaml:"status"`
	ApplicationDeadline time.Time `yaml:"application_deadline"`
	FundingAmount       float64   `yaml:"funding_amount"`
	EligibilityCriteria string    `yaml:"eligibility_criteria"`
	RequiredDocuments   []string  `yaml:"required_documents"`
	CreatedBy           string    `yaml:"created_by"`
}

// Result counts rows inserted and rows skipped because they already existed.
type Result struct {
	UsersCreated int
	UsersSkipped int
	CallsCreated int
	CallsSkipped int
}

func Parse(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func ParseFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

func (f *Fixture) validate() error {
	for i, u := range f.Users {
		if u.Email == "" || u.Password == "" {
			return fmt.Errorf("user %d: email and password are required", i)
		}
		if !models.Role(u.Role).Valid() {
			return fmt.Errorf("user %s: invalid role %q", u.Email, u.Role)
		}
	}
	for i, c := range f.Calls {
		if c.Title == "" {
			return fmt.Errorf("startup call %d: title is required", i)
		}
		if c.FundingAmount < 0 {
			return fmt.Errorf("startup call %s: funding amount must not be negative", c.Title)
		}
	}
	return nil
}

// Apply inserts users missing by email and calls missing by title. Existing rows
// are left untouched so the fixture can be applied repeatedly.
func Apply(ctx context.Context, f *Fixture) (Result, error) {
	var res Result
	hashes := make([]string, len(f.Users))
	for i, u := range f.Users {
		hash, err := services.HashPassword(u.Password)
		if err != nil {
			return res, err
		}
		hashes[i] = hash
	}

	err := models.Run(ctx, func(db *gorm.DB) error {
		res = Result{}
		return db.Transaction(func(tx *gorm.DB) error {
			for i, u := range f.Users {
				user := models.User{
					Name:         u.Name,
					Email:        strings.ToLower(u.Email),
					PasswordHash: hashes[i],
					Role:         models.Role(u.Role),
				}
				created, err := insertMissing(tx, &user, "email = ?", user.Email)
				if err != nil {
					return err
				}
				if created {
					res.UsersCreated++
				} else {
					res.UsersSkipped++
				}
			}

			for _, c := range f.Calls {
				call := models.StartupCall{
					Title:               c.Title,
					Description:         c.Description,
					Industry:            c.Industry,
					Location:            c.Location,
					Status:              c.Status,
					ApplicationDeadline: c.ApplicationDeadline,
					FundingAmount:       c.FundingAmount,
					EligibilityCriteria: c.EligibilityCriteria,
					RequiredDocuments:   c.RequiredDocuments,
				}
				if call.Status == "" {
					call.Status = models.CallDraft
				}
				if c.CreatedBy != "" {
					var owner models.User
					if err := tx.Where("email = ?", strings.ToLower(c.CreatedBy)).First(&owner).Error; err != nil {
						return fmt.Errorf("startup call %s: creator %s: %w", c.Title, c.CreatedBy, err)
					}
					call.CreatedByID = owner.ID
				}
				created, err := insertMissing(tx, &call, "title = ?", call.Title)
				if err != nil {
					return err
				}
				if created {
					res.CallsCreated++
				} else {
					res.CallsSkipped++
				}
			}
			return nil
		})
	})
	if err != nil {
		return Result{}, err
	}

	log.Info().
		Int("users_created", res.UsersCreated).
		Int("users_skipped", res.UsersSkipped).
		Int("calls_created", res.CallsCreated).
		Int("calls_skipped", res.CallsSkipped).
		Msg("seed applied")
	return res, nil
}

func insertMissing[T any](tx *gorm.DB, row *T, query string, arg any) (bool, error) {
	var count int64
	if err := tx.Model(new(T)).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := tx.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}
