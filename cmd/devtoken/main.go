// Command devtoken prints a signed bearer token for local testing.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"alfredoptarigan/hirehub/internal/config"
	"alfredoptarigan/hirehub/internal/models"
	"alfredoptarigan/hirehub/internal/services"
)

func main() {
	userID := flag.String("user", uuid.NewString(), "user id placed in the sub claim")
	email := flag.String("email", "dev@hirehub.local", "email claim")
	role := flag.String("role", models.RoleRecruiter, "admin, recruiter or applicant")
	companyID := flag.String("company", "", "company id for recruiter tokens")
	flag.Parse()

	switch *role {
	case models.RoleAdmin, models.RoleRecruiter, models.RoleApplicant:
	default:
		log.Fatalf("❌ Unknown role %q", *role)
	}

	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatalf("❌ JWT_SECRET is not set")
	}

	token, err := services.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).GenerateToken(models.Principal{
		UserID:    *userID,
		Email:     *email,
		Role:      *role,
		CompanyID: *companyID,
	})
	if err != nil {
		log.Fatalf("❌ Failed to sign token: %v", err)
	}

	fmt.Println(token)
}
