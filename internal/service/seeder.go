package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pebec/beepa-tracker/internal/model"
)

// mdaSeed is one entry in the PEBEC agency list.
type mdaSeed struct {
	name         string
	abbreviation string
}

// pebecMDAs is the PEBEC cluster assignment list seeded into a fresh
// deployment. Each seeded agency gets the full reform framework.
var pebecMDAs = []mdaSeed{
	// Transport & Logistics Services Coordination Committee
	{"Federal Airports Authority of Nigeria", "FAAN"},
	{"Federal Road Safety Corps", "FRSC"},
	{"Nigerian Airspace Management Agency", "NAMA"},
	{"Nigerian Postal Service", "NIPOST"},
	{"Nigeria Civil Aviation Authority", "NCAA"},

	// Digital Infrastructure and Data Governance Facilitation Committee
	{"Galaxy Backbone Limited", "GBB"},
	{"National Identity Management Commission", "NIMC"},
	{"National Information Technology Development Agency", "NITDA"},
	{"Nigerian Communications Commission", "NCC"},
	{"Nigeria Data Protection Commission", "NDPC"},

	// Business Entry, Formalisation & Growth Facilitation Committee
	{"Bureau for Public Procurement", "BPP"},
	{"Ministry of Interior - Citizenship and Business Development Department", "CBDD"},
	{"Corporate Affairs Commission", "CAC"},
	{"EFCC – Special Control Unit for Money Laundering", "SCUML"},
	{"Industrial Training Fund", "ITF"},
	{"Joint Revenue Board", "JRB"},
	{"National Pension Commission", "PENCOM"},
	{"Nigeria Export Promotion Council", "NEPC"},
	{"Nigeria Revenue Service", "NRS"},
	{"Nigeria Social Insurance Trust Fund", "NSITF"},

	// Food and Beverages Optimisation Committee
	{"Federal Competition and Consumer Protection Commission", "FCCPC"},
	{"National Agency for Food and Drug Administration and Control", "NAFDAC"},
	{"Standards Organisation of Nigeria", "SON"},

	// Electricity Access, Regulation & Safety Optimisation Committee
	{"Rural Electrification Agency", "REA"},
	{"Nigerian Electricity Management Service Agency", "NEMSA"},
	{"Nigerian Electricity Regulatory Commission", "NERC"},

	// Petroleum Industry Services Coordination Committee
	{"Nigerian Content Development Management Board", "NCDMB"},
	{"Nigerian Midstream and Downstream Petroleum Regulatory Authority", "NMDPRA"},
	{"Nigerian Upstream Petroleum Regulatory Commission", "NUPRC"},

	// Public Service Delivery Enablement Committee
	{"Bureau of Public Service Reforms", "BPSR"},
	{"Service Compact", "SERVICOM"},

	// Intellectual Property Services Harmonisation Committee
	{"FMITI - Trademarks Registry", "CLTR"},
	{"National Office for Technology Acquisition and Promotion", "NOTAP"},
	{"Nigerian Copyright Commission", "NiCC"},
	{"FMITI - Patent and Design Registry", "PDR"},

	// Business Finance & Risk Optimisation Committee
	{"Bank of Industry", "BOI"},
	{"Central Bank of Nigeria – National Collateral Registry", "CBN-NCR"},
	{"National Insurance Commission", "NAICOM"},
	{"Nigerian Agricultural Insurance Corporation", "NAIC"},
	{"Nigerian Export-Import Bank", "NEXIM"},
	{"Securities and Exchange Commission", "SEC"},

	// Investment Entry, Incentives & Free Zones Facilitation Committee
	{"Nigerian Investment Promotion Commission", "NIPC"},
	{"Oil & Gas Free Zone Authority", "OGFZA"},
	{"Nigeria Export Processing Zone Authority", "NEPZA"},

	// Ports and Customs Efficiency Committee
	{"National Drug Law Enforcement Agency", "NDLEA"},
	{"National Inland Waterways Authority", "NIWA"},
	{"Nigeria Agricultural Quarantine Service", "NAQS"},
	{"Nigeria Customs Service", "NCS"},
	{"Nigeria Immigration Service", "NIS"},
	{"Nigerian Maritime Administration and Safety Agency", "NIMASA"},
	{"Nigerian Ports Authority", "NPA"},
	{"Nigerian Shippers Council", "NSC"},
	{"Ports Health Authority", "PHA"},

	// Product Standards & Safety Services Coordination Committee
	{"Environmental Health Council of Nigeria", "EHCON"},
	{"Federal Produce Inspection Service", "FPIS"},
	{"National Environmental Standards and Regulations Enforcement Agency", "NESREA"},

	// Commercial Communications & Consumer Protection Committee
	{"Advertising Regulatory Council of Nigeria", "ARCON"},
	{"Nigeria Broadcasting Commission", "NBC"},
}

// SeederService populates a deployment with the PEBEC agency list.
type SeederService struct {
	mdaSvc  *MDAService
	mdaRepo MDAFullRepository
	logger  *slog.Logger
}

// NewSeederService creates a new seeder service
func NewSeederService(mdaSvc *MDAService, mdaRepo MDAFullRepository, logger *slog.Logger) *SeederService {
	return &SeederService{
		mdaSvc:  mdaSvc,
		mdaRepo: mdaRepo,
		logger:  logger,
	}
}

// SeedResult reports what a seeding run did.
type SeedResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// SeedMDAs creates every PEBEC agency with its full reform framework.
// Agencies that already exist (matched by name) are skipped, so the call is
// safe to repeat.
func (s *SeederService) SeedMDAs(ctx context.Context, actor model.Capability) (*SeedResult, error) {
	result := &SeedResult{}
	for _, seed := range pebecMDAs {
		existing, err := s.mdaRepo.GetByName(ctx, seed.name)
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", seed.name, err)
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		abbr := seed.abbreviation
		if _, err := s.mdaSvc.CreateMDA(ctx, actor, CreateMDARequest{
			Name:         seed.name,
			Abbreviation: &abbr,
		}); err != nil {
			return nil, fmt.Errorf("seed %q: %w", seed.name, err)
		}
		result.Created++
	}

	s.logger.Info("mda seeding complete", "created", result.Created, "skipped", result.Skipped)
	return result, nil
}
