package config

import (
	"context"
	"log"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/adapters/persistence/repositories"
	"colisso/internal/core/domain"
	"colisso/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedRoles(); err != nil {
		return err
	}
	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

var roleLabels = map[domain.RoleCode]string{
	domain.RoleAdmin:        "Administrator",
	domain.RoleManager:      "Station Manager",
	domain.RoleCounterAgent: "Counter Agent",
	domain.RoleParcelAgent:  "Parcel Agent",
	domain.RoleCourier:      "Courier",
	domain.RoleClient:       "Client",
	domain.RoleShipper:      "Shipper",
}

// seedRoles inserts the closed role set. Existing rows are left alone so
// labels edited in the database survive restarts.
func (s *Seeder) seedRoles() error {
	roleRepo := repositories.NewRoleRepository(s.db)
	for _, code := range domain.AllRoles {
		role := &models.Role{
			Code:     string(code),
			Label:    roleLabels[code],
			IsActive: true,
		}
		if err := roleRepo.Upsert(context.Background(), role); err != nil {
			return err
		}
	}
	return nil
}

// seedAdminUser seeds a default admin for development. Production
// deployments should create the first admin through a secure process
// and override these credentials via environment variables.
func (s *Seeder) seedAdminUser() error {
	var role models.Role
	if err := s.db.Where("code = ?", string(domain.RoleAdmin)).First(&role).Error; err != nil {
		return err
	}

	var count int64
	s.db.Model(&models.User{}).Where("role_id = ?", role.ID).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	phone := getEnv("ADMIN_PHONE", "+10000000001")
	plain := getEnv("ADMIN_PASSWORD", "admin123456")

	hashedPassword, err := password.Hash(plain)
	if err != nil {
		return err
	}

	admin := &models.User{
		Phone:     phone,
		FirstName: "System",
		LastName:  "Admin",
		Password:  hashedPassword,
		RoleID:    role.ID,
		IsActive:  true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Phone)
	return nil
}
