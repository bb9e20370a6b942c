// Package seed は開発用の初期データ（ユーザーと出品）をYAMLから投入する。
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/usecase"
	auth "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/usecase/auth_usecase"

	"gopkg.in/yaml.v3"
)

type File struct {
	Users    []User    `yaml:"users"`
	Listings []Listing `yaml:"listings"`
}

type User struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Campus   string `yaml:"campus"`
	Admin    bool   `yaml:"admin"`
}

type Listing struct {
	Seller      string   `yaml:"seller"` // 出品者のemail
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Category    string   `yaml:"category"`
	Condition   string   `yaml:"condition"`
	Images      []string `yaml:"images"`
	Campus      string   `yaml:"campus"`
	Quantity    int64    `yaml:"quantity"`
}

type Result struct {
	UsersCreated    int
	UsersSkipped    int
	ListingsCreated int
}

func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// 知らないキーはエラー（typo対策）
func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("parse seed file: %w", err)
	}
	for i, l := range f.Listings {
		if strings.TrimSpace(l.Seller) == "" {
			return File{}, fmt.Errorf("listings[%d]: seller required", i)
		}
	}
	return f, nil
}

// 登録・出品は通常のusecaseを通す
type Seeder struct {
	Users    repository.UserRepository
	Register *auth.RegisterUserUsecase
	Products *usecase.ProductUsecase
	Admins   *usecase.AdminUserUsecase
}

// 既にいるユーザーは作らない。出品は毎回追加する。
func (s *Seeder) Apply(ctx context.Context, f File) (Result, error) {
	var res Result

	for _, u := range f.Users {
		_, err := s.Register.Execute(ctx, auth.RegisterUserInput{
			Email:    u.Email,
			Password: u.Password,
			Name:     u.Name,
			Campus:   u.Campus,
		})
		switch {
		case err == nil:
			res.UsersCreated++
		case errors.Is(err, auth.ErrEmailAlreadyExists):
			res.UsersSkipped++
		default:
			return res, fmt.Errorf("user %s: %w", u.Email, err)
		}

		if u.Admin {
			if _, err := s.Admins.PromoteAdmin(ctx, 0, u.Email); err != nil {
				return res, fmt.Errorf("promote %s: %w", u.Email, err)
			}
		}
	}

	for i, l := range f.Listings {
		seller, err := s.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(l.Seller)))
		if err != nil {
			return res, fmt.Errorf("listings[%d]: seller %s: %w", i, l.Seller, err)
		}
		if _, err := s.Products.CreateProduct(ctx, seller.ID, usecase.ProductInput{
			Title:       l.Title,
			Description: l.Description,
			Price:       l.Price,
			Category:    l.Category,
			Condition:   l.Condition,
			Images:      l.Images,
			Campus:      l.Campus,
			Quantity:    l.Quantity,
		}); err != nil {
			return res, fmt.Errorf("listings[%d]: %w", i, err)
		}
		res.ListingsCreated++
	}

	return res, nil
}
