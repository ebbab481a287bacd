package main

import (
	"fmt"

	"github.com/zopumarket/zopumarket/internal/config"
	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/logger"
	"github.com/zopumarket/zopumarket/internal/models"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	categories := []models.Category{
		{Slug: "gestao-financeira", Name: "Gestão Financeira", SortOrder: 100},
		{Slug: "juridico", Name: "Jurídico", SortOrder: 90},
		{Slug: "marketing-digital", Name: "Marketing Digital", SortOrder: 80},
		{Slug: "tecnologia", Name: "Tecnologia", SortOrder: 70},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	partners := []models.Partner{
		{
			Slug:           "techbridge-consultoria",
			CompanyName:    "TechBridge Consultoria",
			LegalName:      "TechBridge Consultoria em Tecnologia Ltda",
			CNPJ:           "11.222.333/0001-81",
			CurationStatus: constants.CurationStatusApproved,
			Tier:           constants.PartnerTierPremium,
			ContactName:    "Mariana Souza",
			ContactEmail:   "mariana@techbridge.com.br",
			ContactPhone:   "+55 11 98888-1001",
			Website:        "https://techbridge.com.br",
			About:          "Implantação de ERPs e integrações para médias empresas.",
			CNAEPrincipal:  "6204-0/00",
		},
		{
			Slug:           "conecta-bpo",
			CompanyName:    "Conecta BPO Financeiro",
			LegalName:      "Conecta Serviços Financeiros Ltda",
			CNPJ:           "44.555.666/0001-07",
			CurationStatus: constants.CurationStatusApproved,
			Tier:           constants.PartnerTierStandard,
			ContactName:    "Ricardo Alves",
			ContactEmail:   "ricardo@conectabpo.com.br",
			ContactPhone:   "+55 21 97777-2002",
			Website:        "https://conectabpo.com.br",
			About:          "Terceirização financeira completa: contas a pagar, receber e conciliação.",
			CNAEPrincipal:  "8219-9/99",
		},
		{
			Slug:           "lexpar-advocacia",
			CompanyName:    "LexPar Advocacia Empresarial",
			LegalName:      "LexPar Sociedade de Advogados",
			CNPJ:           "77.888.999/0001-62",
			CurationStatus: constants.CurationStatusPending,
			Tier:           constants.PartnerTierStandard,
			ContactName:    "Fernanda Castro",
			ContactEmail:   "fernanda@lexpar.adv.br",
			ContactPhone:   "+55 31 96666-3003",
			About:          "Consultoria jurídica para contratos B2B e compliance.",
			CNAEPrincipal:  "6911-7/01",
		},
	}

	for _, partner := range partners {
		var existing models.Partner
		if err := models.DB.Where("slug = ?", partner.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&partner).Error; err != nil {
				stdLog.Printf("Failed to create partner %s: %v", partner.Slug, err)
			} else {
				stdLog.Printf("Created partner: %s", partner.Slug)
			}
		} else {
			stdLog.Printf("Partner already exists: %s", partner.Slug)
		}
	}

	partnerIDs := map[string]uint{}
	var partnerList []models.Partner
	if err := models.DB.Find(&partnerList).Error; err != nil {
		stdLog.Printf("Failed to load partners: %v", err)
	}
	for _, partner := range partnerList {
		partnerIDs[partner.Slug] = partner.ID
	}

	monthly1490 := int64(149000)
	annual14900 := int64(1490000)
	price350000 := int64(350000)
	takeRate := 20
	partnerShare := 80

	offers := []models.Offer{
		{
			Slug:              "erp-implantacao-completa",
			Title:             "Implantação ERP Completa",
			Description:       "Diagnóstico, migração de dados e treinamento em até 90 dias.",
			PartnerID:         partnerIDs["techbridge-consultoria"],
			CategoryID:        categoryIDs["tecnologia"],
			OfferType:         constants.OfferTypeServiceComplex,
			SaleMode:          constants.SaleModeLeadForm,
			SuccessFeePercent: 10,
			Deliverables: models.JSONArray{
				{"title": "Diagnóstico de processos", "description": "Mapeamento das rotinas atuais"},
				{"title": "Migração de dados", "description": "Importação validada do legado"},
				{"title": "Treinamento", "description": "Capacitação do time em 3 sessões"},
			},
			FAQ: models.JSONArray{
				{"question": "Qual o prazo médio?", "answer": "Entre 60 e 90 dias conforme o porte."},
			},
			IsActive: true,
		},
		{
			Slug:                "bpo-financeiro-mensal",
			Title:               "BPO Financeiro Mensal",
			Description:         "Rotina financeira terceirizada com relatórios mensais.",
			PartnerID:           partnerIDs["conecta-bpo"],
			CategoryID:          categoryIDs["gestao-financeira"],
			OfferType:           constants.OfferTypeServiceStandard,
			SaleMode:            constants.SaleModeCheckout,
			PriceMonthly:        &monthly1490,
			PriceAnnual:         &annual14900,
			BillingPeriods:      models.StringArray{"monthly", "annual"},
			SuccessFeePercent:   8,
			ZopuTakeRatePercent: &takeRate,
			PartnerSharePercent: &partnerShare,
			IsActive:            true,
		},
		{
			Slug:              "revisao-contratos-b2b",
			Title:             "Revisão de Contratos B2B",
			Description:       "Análise e adequação de contratos comerciais.",
			PartnerID:         partnerIDs["lexpar-advocacia"],
			CategoryID:        categoryIDs["juridico"],
			OfferType:         constants.OfferTypeServiceStandard,
			SaleMode:          constants.SaleModeLeadForm,
			Price:             &price350000,
			SuccessFeePercent: 12,
			IsActive:          true,
		},
	}

	for _, offer := range offers {
		if offer.PartnerID == 0 {
			stdLog.Printf("Skip offer %s: partner_id missing", offer.Slug)
			continue
		}
		var existing models.Offer
		if err := models.DB.Where("slug = ?", offer.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&offer).Error; err != nil {
				stdLog.Printf("Failed to create offer %s: %v", offer.Slug, err)
			} else {
				stdLog.Printf("Created offer: %s", offer.Slug)
			}
		} else {
			stdLog.Printf("Offer already exists: %s", offer.Slug)
		}
	}

	basic := int64(89000)
	pro := int64(149000)
	var bpoOffer models.Offer
	if err := models.DB.Where("slug = ?", "bpo-financeiro-mensal").First(&bpoOffer).Error; err == nil {
		variants := []models.OfferVariant{
			{OfferID: bpoOffer.ID, Name: "Essencial", UserLimit: 5, PriceMonthly: &basic, SortOrder: 100},
			{OfferID: bpoOffer.ID, Name: "Profissional", UserLimit: 20, PriceMonthly: &pro, SortOrder: 90},
		}
		for _, variant := range variants {
			var existing models.OfferVariant
			if err := models.DB.Where("offer_id = ? AND name = ?", variant.OfferID, variant.Name).First(&existing).Error; err != nil {
				if err := models.DB.Create(&variant).Error; err != nil {
					stdLog.Printf("Failed to create variant %s: %v", variant.Name, err)
				} else {
					stdLog.Printf("Created variant: %s", variant.Name)
				}
			} else {
				stdLog.Printf("Variant already exists: %s", variant.Name)
			}
		}
	}

	cases := []models.PartnerCase{
		{
			PartnerID:  partnerIDs["techbridge-consultoria"],
			Title:      "ERP em indústria de autopeças",
			ClientName: "Metalúrgica Andrade",
			Segment:    "Indústria",
			Summary:    "Implantação completa em 75 dias com integração fiscal.",
			Results: models.JSONArray{
				{"metric": "Tempo de fechamento contábil", "value": "-40%"},
				{"metric": "Retrabalho em lançamentos", "value": "-65%"},
			},
			IsPublished: true,
			SortOrder:   100,
		},
		{
			PartnerID:  partnerIDs["conecta-bpo"],
			Title:      "Financeiro terceirizado em rede de clínicas",
			ClientName: "Rede Vida Saúde",
			Segment:    "Saúde",
			Summary:    "Centralização do contas a pagar de 12 unidades.",
			Results: models.JSONArray{
				{"metric": "Inadimplência", "value": "-30%"},
			},
			IsPublished: true,
			SortOrder:   90,
		},
	}

	for _, item := range cases {
		if item.PartnerID == 0 {
			stdLog.Printf("Skip case %s: partner_id missing", item.Title)
			continue
		}
		var existing models.PartnerCase
		if err := models.DB.Where("partner_id = ? AND title = ?", item.PartnerID, item.Title).First(&existing).Error; err != nil {
			if err := models.DB.Create(&item).Error; err != nil {
				stdLog.Printf("Failed to create case %s: %v", item.Title, err)
			} else {
				stdLog.Printf("Created case: %s", item.Title)
			}
		} else {
			stdLog.Printf("Case already exists: %s", item.Title)
		}
	}

	fmt.Println("\nSeed data created successfully.")
	fmt.Println("Summary:")
	fmt.Println("- 4 Categories")
	fmt.Println("- 3 Partners (2 approved, 1 pending curation)")
	fmt.Println("- 3 Offers (1 checkout with variants, 2 lead form)")
	fmt.Println("- 2 Partner cases")
}
