package postgres_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bodega-ag/inventory-gateway/internal/catalog"
	catalogPostgres "github.com/bodega-ag/inventory-gateway/internal/catalog/postgres"
	catalogDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/catalog"
)

func TestCatalogPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catalog Postgres Suite")
}

var _ = Describe("Catalog Repository", func() {
	var (
		db   *gorm.DB
		repo *catalogPostgres.CatalogRepository
	)

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		for _, k := range catalog.Kinds() {
			Expect(db.Table(k.Table()).AutoMigrate(&catalogDatamodel.Entry{})).To(Succeed())
		}
		repo = catalogPostgres.NewCatalogRepository(db)
	})

	create := func(k catalog.Kind, nombre string) *catalogDatamodel.Entry {
		e := &catalogDatamodel.Entry{Nombre: nombre, Activo: true}
		Expect(repo.Create(k, e)).To(Succeed())
		Expect(e.ID).To(BeNumerically(">", 0))
		return e
	}

	It("keeps each catalog in its own table", func() {
		create(catalog.Area, "Dirección")
		create(catalog.Brand, "Dell")

		areas, err := repo.ListActive(catalog.Area)
		Expect(err).NotTo(HaveOccurred())
		Expect(areas).To(HaveLen(1))
		Expect(areas[0].Nombre).To(Equal("Dirección"))

		statuses, err := repo.ListActive(catalog.Status)
		Expect(err).NotTo(HaveOccurred())
		Expect(statuses).To(BeEmpty())
	})

	It("lists active entries by name", func() {
		create(catalog.Brand, "HP")
		dell := create(catalog.Brand, "Dell")
		cisco := create(catalog.Brand, "Cisco")

		found, err := repo.SetActive(catalog.Brand, cisco.ID, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())

		brands, err := repo.ListActive(catalog.Brand)
		Expect(err).NotTo(HaveOccurred())
		Expect(brands).To(HaveLen(2))
		Expect(brands[0].ID).To(Equal(dell.ID))
	})

	It("reports missing rows", func() {
		e, err := repo.GetByID(catalog.Area, 42)
		Expect(err).NotTo(HaveOccurred())
		Expect(e).To(BeNil())

		found, err := repo.SetActive(catalog.Area, 42, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})

	It("detects name clashes ignoring case and the edited row", func() {
		e := create(catalog.Category, "Redes")

		taken, err := repo.NameTaken(catalog.Category, "REDES", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(taken).To(BeTrue())

		taken, err = repo.NameTaken(catalog.Category, "redes", e.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(taken).To(BeFalse())
	})

	It("updates and fetches in bulk", func() {
		a := create(catalog.Area, "Almacén")
		b := create(catalog.Area, "Laboratorio")

		a.Nombre = "Almacén General"
		Expect(repo.Update(catalog.Area, a)).To(Succeed())

		many, err := repo.GetMany(catalog.Area, []int64{a.ID, b.ID, 99})
		Expect(err).NotTo(HaveOccurred())
		Expect(many).To(HaveLen(2))
		Expect(many[a.ID].Nombre).To(Equal("Almacén General"))

		empty, err := repo.GetMany(catalog.Area, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(empty).To(BeEmpty())
	})
})
