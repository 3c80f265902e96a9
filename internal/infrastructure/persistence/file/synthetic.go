package file

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	"github.com/turtacn/jalak-hijau/pkg/constants"
)

// Synthetic data generation. Everything here is deterministic for a given
// seed: demo deployments without data files always see the same map and the
// same suspicious patterns.

var syntheticEpoch = time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

type syntheticRegion struct {
	name string
	lat  float64
	lon  float64
}

var syntheticRegions = []syntheticRegion{
	{"Riau", 0.5, 101.4},
	{"Kalimantan Barat", -0.1, 111.5},
	{"Kalimantan Tengah", -1.7, 113.4},
	{"Sumatera Selatan", -3.2, 104.1},
	{"Papua Barat", -1.3, 132.3},
}

var syntheticForestNames = []string{
	"Taman Nasional Tesso Nilo",
	"Hutan Lindung Kapuas Hulu",
	"Taman Nasional Sebangau",
	"Suaka Margasatwa Dangku",
	"Cagar Alam Pegunungan Arfak",
}

var syntheticCompanyNames = []string{
	"PT Sawit Makmur Abadi",
	"PT Kelapa Hijau Lestari",
	"PT Nusantara Agro Prima",
	"PT Borneo Palma Sejahtera",
	"PT Rimba Emas Plantation",
	"PT Cahaya Tani Mandiri",
	"PT Surya Kebun Raya",
	"PT Palma Citra Utama",
	"PT Agro Tirta Kencana",
	"PT Hijau Daun Sentosa",
	"PT Bumi Sawit Perkasa",
	"PT Mega Palma Internasional",
}

// square builds a size x size degree square with its south-west corner at
// (lat, lon). Coordinates are (lon lat) per WKT convention.
func square(lat, lon, size float64) models.Geometry {
	wkt := fmt.Sprintf("POLYGON((%[1]v %[2]v,%[3]v %[2]v,%[3]v %[4]v,%[1]v %[4]v,%[1]v %[2]v))",
		lon, lat, lon+size, lat+size)
	g, err := models.GeometryFromWKT(wkt)
	if err != nil {
		panic("synthetic square WKT must parse: " + err.Error())
	}
	return g
}

// syntheticGeoDataset builds five protected areas and twelve concessions. The
// first four concessions overlap a forest by a known fraction so the demo map
// always shows critical, high and medium findings; the rest sit clear.
func syntheticGeoDataset(seed int64) *repository.GeoDataset {
	rng := rand.New(rand.NewSource(seed))

	areas := make([]models.ProtectedArea, 0, len(syntheticRegions))
	for i, region := range syntheticRegions {
		g := square(region.lat, region.lon, 0.5)
		lat, lon := g.Centroid()
		areas = append(areas, models.ProtectedArea{
			ID:        fmt.Sprintf("forest-%03d", i+1),
			Name:      syntheticForestNames[i],
			Region:    region.name,
			Geometry:  g,
			Status:    "protected",
			AreaHa:    models.AreaHectares(g.Area()),
			CenterLat: lat,
			CenterLon: lon,
		})
	}

	// Overlap fractions for the first concessions: the concession square has
	// the same size as the forest square, shifted east so the shared strip is
	// the given fraction of its area.
	overlapFractions := []float64{0.45, 0.35, 0.20, 0.12}

	concessions := make([]models.Concession, 0, len(syntheticCompanyNames))
	for i, company := range syntheticCompanyNames {
		region := syntheticRegions[i%len(syntheticRegions)]
		var g models.Geometry
		if i < len(overlapFractions) {
			forest := syntheticRegions[i]
			g = square(forest.lat, forest.lon+0.5*(1-overlapFractions[i]), 0.5)
		} else {
			// Clear of every forest square: offset south by a full degree
			// plus jitter.
			jitter := rng.Float64() * 0.3
			g = square(region.lat-1.2-jitter, region.lon+rng.Float64()*0.5, 0.4)
		}
		lat, lon := g.Centroid()
		permit := "active"
		if rng.Float64() < 0.25 {
			permit = "under review"
		}
		concessions = append(concessions, models.Concession{
			Company:      company,
			Region:       region.name,
			Geometry:     g,
			PermitStatus: permit,
			AreaHa:       models.AreaHectares(g.Area()),
			CenterLat:    lat,
			CenterLon:    lon,
		})
	}

	return &repository.GeoDataset{
		ProtectedAreas: areas,
		Concessions:    concessions,
		Version:        fmt.Sprintf("synthetic-geo-%d", seed),
		Synthetic:      true,
	}
}

// syntheticFinancialDataset builds the company registry and a transaction
// history that contains one structuring cluster and one layering chain among
// ordinary transfers.
func syntheticFinancialDataset(seed int64) *repository.FinancialDataset {
	rng := rand.New(rand.NewSource(seed))

	companies := make([]models.Company, 0, len(syntheticCompanyNames)+6)
	for i, name := range syntheticCompanyNames {
		companies = append(companies, models.Company{
			ID:     fmt.Sprintf("PT-%03d", i+1),
			Name:   name,
			Region: syntheticRegions[i%len(syntheticRegions)].name,
			Type:   constants.CompanyTypePlantation,
		})
	}
	shells := []string{"CV Berkah Jaya", "CV Mitra Sentosa", "CV Lintas Nusantara"}
	for i, name := range shells {
		companies = append(companies, models.Company{
			ID:   fmt.Sprintf("SH-%03d", i+1),
			Name: name,
			Type: constants.CompanyTypeShell,
		})
	}
	companies = append(companies,
		models.Company{ID: "BK-001", Name: "Bank Khatulistiwa", Type: constants.CompanyTypeBank},
		models.Company{ID: "BK-002", Name: "Bank Nusantara Raya", Type: constants.CompanyTypeBank},
		models.Company{ID: "IN-001", Name: "H. Rahmat Wijaya", Type: constants.CompanyTypeIndividual},
	)

	txns := make([]models.Transaction, 0, 128)
	next := 0
	newID := func() string {
		next++
		return fmt.Sprintf("txn-%04d", next)
	}

	// Background noise: ordinary transfers between plantations and banks.
	for i := 0; i < 80; i++ {
		sender := companies[rng.Intn(len(companies))]
		receiver := companies[rng.Intn(len(companies))]
		if sender.ID == receiver.ID {
			continue
		}
		txns = append(txns, models.Transaction{
			ID:         newID(),
			Timestamp:  syntheticEpoch.Add(time.Duration(rng.Intn(30*24)) * time.Hour),
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
			AmountIDR:  float64(10+rng.Intn(300)) * 1_000_000,
		})
	}

	// Structuring: the first plantation splits payments just under the
	// reporting threshold across consecutive days.
	for i := 0; i < 4; i++ {
		txns = append(txns, models.Transaction{
			ID:         newID(),
			Timestamp:  syntheticEpoch.Add(time.Duration(i*18) * time.Hour),
			SenderID:   "PT-001",
			ReceiverID: fmt.Sprintf("SH-%03d", i%3+1),
			AmountIDR:  constants.StructuringReportThresholdIDR * (0.92 + 0.02*float64(i)),
		})
	}

	// Layering: funds hop plantation -> shell -> shell -> individual with
	// minimal skimming at each hop.
	chain := []string{"PT-002", "SH-001", "SH-002", "IN-001"}
	amount := 2_000_000_000.0
	for i := 0; i+1 < len(chain); i++ {
		txns = append(txns, models.Transaction{
			ID:         newID(),
			Timestamp:  syntheticEpoch.Add(time.Duration(10*24+i*8) * time.Hour),
			SenderID:   chain[i],
			ReceiverID: chain[i+1],
			AmountIDR:  amount,
		})
		amount *= 0.95
	}

	return &repository.FinancialDataset{
		Transactions: txns,
		Companies:    companies,
		Version:      fmt.Sprintf("synthetic-financial-%d", seed),
		Synthetic:    true,
	}
}
