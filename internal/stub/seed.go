package stub

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"github.com/bodega-ag/inventory-gateway/internal/catalog"
	catalogPostgres "github.com/bodega-ag/inventory-gateway/internal/catalog/postgres"
	catalogDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/catalog"
	productDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/product"
	userDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/user"
	productPostgres "github.com/bodega-ag/inventory-gateway/internal/product/postgres"
	"github.com/bodega-ag/inventory-gateway/internal/user"
	userPostgres "github.com/bodega-ag/inventory-gateway/internal/user/postgres"
)

// SeedUser is a development account created by Seed.
type SeedUser struct {
	Usuario    string
	Nombre     string
	Correo     string
	Contrasena string
	Nivel      user.AccessLevel
}

var SeedUsers = []SeedUser{
	{Usuario: "admin", Nombre: "Administrador", Correo: "admin@bodega.local", Contrasena: "admin123", Nivel: user.LevelTotal},
	{Usuario: "operador", Nombre: "Operador de Almacén", Correo: "operador@bodega.local", Contrasena: "operador123", Nivel: user.LevelPartial},
}

var seedCatalogs = map[string][]string{
	catalog.Area.Slug:     {"Laboratorio de Cómputo", "Almacén General", "Dirección"},
	catalog.Category.Slug: {"Equipo de cómputo", "Mobiliario", "Redes"},
	catalog.Brand.Slug:    {"Dell", "HP", "Cisco"},
	catalog.Status.Slug:   {"Bueno", "Regular", "En reparación"},
}

// Seed inserts the development accounts and catalog values that are missing.
// Running it twice changes nothing.
func Seed(db *gorm.DB, bcryptCost int, logger *slog.Logger) error {
	users := userPostgres.NewUserRepository(db)
	for _, su := range SeedUsers {
		existing, err := users.GetByUsername(su.Usuario)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", su.Usuario, err)
		}
		if existing != nil {
			logger.Info("seed: user already exists", "usuario", su.Usuario)
			continue
		}
		hash, err := HashPassword(su.Contrasena, bcryptCost)
		if err != nil {
			return err
		}
		if err := users.Create(&userDatamodel.Usuario{
			Usuario:      su.Usuario,
			Nombre:       su.Nombre,
			Correo:       su.Correo,
			PasswordHash: hash,
			Nivel:        int(su.Nivel),
			Activo:       true,
		}); err != nil {
			return fmt.Errorf("insert %s: %w", su.Usuario, err)
		}
		logger.Info("seed: user created", "usuario", su.Usuario, "nivel", su.Nivel.String())
	}

	catalogs := catalogPostgres.NewCatalogRepository(db)
	for _, k := range catalog.Kinds() {
		for _, nombre := range seedCatalogs[k.Slug] {
			taken, err := catalogs.NameTaken(k, nombre, 0)
			if err != nil {
				return fmt.Errorf("lookup %s %s: %w", k.Singular, nombre, err)
			}
			if taken {
				continue
			}
			if err := catalogs.Create(k, &catalogDatamodel.Entry{Nombre: nombre, Activo: true}); err != nil {
				return fmt.Errorf("insert %s %s: %w", k.Singular, nombre, err)
			}
		}
		logger.Info("seed: catalog ready", "catalog", k.Resource)
	}
	return nil
}

// ClearData removes every row, children first.
func ClearData(db *gorm.DB) error {
	tables := []string{"movimientos", "productos", "estados", "marcas", "categorias", "areas", "usuarios"}
	for _, t := range tables {
		if err := db.Exec("DELETE FROM " + t).Error; err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}
	return nil
}

// SeedProducts adds count fake products spread over the active catalog values.
func SeedProducts(db *gorm.DB, count int, logger *slog.Logger) error {
	catalogs := catalogPostgres.NewCatalogRepository(db)
	refs := map[string][]int64{}
	for _, k := range catalog.Kinds() {
		entries, err := catalogs.ListActive(k)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no active %s to attach products to; run the catalog seed first", k.Plural)
		}
		for _, e := range entries {
			refs[k.Slug] = append(refs[k.Slug], e.ID)
		}
	}

	faker := gofakeit.New(0)
	pick := func(k catalog.Kind) int64 {
		ids := refs[k.Slug]
		return ids[faker.Number(0, len(ids)-1)]
	}

	products := productPostgres.NewProductRepository(db)
	created := 0
	for created < count {
		noInv := faker.Numerify("INV-######")
		taken, err := products.NoInvTaken(noInv, 0)
		if err != nil {
			return err
		}
		if taken {
			continue
		}
		row := &productDatamodel.Producto{
			NoInv:       noInv,
			IDArea:      pick(catalog.Area),
			IDCategoria: pick(catalog.Category),
			IDMarca:     pick(catalog.Brand),
			IDEstado:    pick(catalog.Status),
			Activo:      true,
		}
		// roughly one in four items has no serial number
		if faker.Number(0, 3) > 0 {
			serie := strings.ToUpper(faker.Lexify("??")) + faker.Numerify("-########")
			row.NoSerie = &serie
		}
		modelo := faker.ProductName()
		row.Modelo = &modelo
		if err := products.Create(row); err != nil {
			return fmt.Errorf("insert product %s: %w", noInv, err)
		}
		created++
	}
	logger.Info("seed: products created", "count", created)
	return nil
}
