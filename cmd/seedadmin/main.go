// seedadmin crea el usuario administrador inicial a partir de variables de entorno.
//
// Uso: ADMIN_EMAIL=admin@ejemplo.com ADMIN_PASSWORD=secreto go run ./cmd/seedadmin
// Si el email ya existe, termina sin error.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/margenes-api/internal/application/auth"
	"github.com/jhoicas/margenes-api/internal/application/dto"
	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
	"github.com/jhoicas/margenes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/margenes-api/pkg/config"
)

func main() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_EMAIL y ADMIN_PASSWORD son obligatorios")
		os.Exit(1)
	}

	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrador"
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	pool, err := postgres.NewPool(context.Background(), cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	user, err := authUC.CreateUser(dto.CreateUserRequest{
		Email:    email,
		Password: password,
		Name:     name,
		Role:     entity.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			fmt.Printf("El usuario %s ya existe, nada que hacer\n", email)
			return
		}
		fmt.Fprintf(os.Stderr, "Crear administrador: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Administrador creado: %s (%s)\n", user.Email, user.ID)
}
