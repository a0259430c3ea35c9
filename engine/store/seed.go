package store

import "github.com/EmersonEIMS/generator-oracle/engine/domain"

// SeedRecords is the built-in fallback corpus, served when no external
// record source is configured. It covers the controller and engine brands
// the diagnostic matcher knows about.
func SeedRecords() []domain.FaultCodeRecord {
	return []domain.FaultCodeRecord{
		{
			ID: "cummins-e1001", Code: "E1001", Brand: "Cummins", Model: "All Models",
			Category: "Lubrication", Severity: domain.SeverityWarning,
			Title:       "Low Oil Pressure",
			Description: "Engine oil pressure below the protection threshold at rated speed.",
			Causes:      []string{"Low oil level", "Worn oil pump", "Faulty pressure sensor", "Clogged oil filter"},
			Solutions: []domain.Solution{
				{Text: "Check oil level on dipstick and top up to specification", Difficulty: "easy", TimeEstimate: "15 minutes"},
				{Text: "Replace oil filter and verify pressure with a mechanical gauge", Difficulty: "moderate", TimeEstimate: "1 hour", Parts: []string{"Oil filter"}, Tools: []string{"Mechanical oil pressure gauge"}},
			},
			Symptoms:       []string{"oil warning light", "pressure drop", "engine shutdown"},
			SafetyWarnings: []string{"Do not operate with low oil pressure"},
			RelatedCodes:   []string{"DS-7320-101", "PERK-1104D-001"},
		},
		{
			ID: "deepsea-ds-7320-101", Code: "DS-7320-101", Brand: "DeepSea", Model: "DSE 7320",
			Category: "Lubrication", Severity: domain.SeverityCritical,
			Title:       "Oil Pressure Shutdown",
			Description: "Controller tripped the engine on low oil pressure input.",
			Causes:      []string{"Genuine low oil pressure", "Sensor wiring fault", "Wrong sensor calibration curve"},
			Solutions: []domain.Solution{
				{Text: "Verify actual oil pressure before resetting the controller", Difficulty: "moderate", TimeEstimate: "30 minutes"},
			},
			Symptoms:     []string{"engine shutdown", "oil pressure alarm"},
			RelatedCodes: []string{"E1001", "CUM-KTA50-002"},
		},
		{
			ID: "cummins-kta50-002", Code: "CUM-KTA50-002", Brand: "Cummins", Model: "KTA50",
			Category: "Lubrication", Severity: domain.SeverityCritical,
			Title:       "Engine Protection Oil Pressure Trip",
			Description: "Engine protection system derated then stopped the engine on oil pressure.",
			Causes:      []string{"Oil pump wear", "Bearing damage", "Oil dilution with fuel"},
			Solutions: []domain.Solution{
				{Text: "Inspect bearings and oil pump; test oil sample for fuel dilution", Difficulty: "expert", TimeEstimate: "4-8 hours"},
			},
			Symptoms: []string{"engine shutdown", "low power before stop"},
		},
		{
			ID: "perkins-1104d-001", Code: "PERK-1104D-001", Brand: "Perkins", Model: "1104D",
			Category: "Lubrication", Severity: domain.SeverityWarning,
			Title:       "Oil Pressure Sensor Fault",
			Description: "Oil pressure sender reading out of plausible range.",
			Causes:      []string{"Sender failure", "Harness chafing", "Connector corrosion"},
			Solutions: []domain.Solution{
				{Text: "Replace the oil pressure sender and inspect the harness", Difficulty: "easy", TimeEstimate: "45 minutes", Parts: []string{"Oil pressure sender"}},
			},
			Symptoms: []string{"erratic oil pressure reading", "warning light"},
		},
		{
			ID: "cummins-e1003", Code: "E1003", Brand: "Cummins", Model: "All Models",
			Category: "Cooling System", Severity: domain.SeverityCritical,
			Title:       "High Coolant Temperature",
			Description: "Coolant temperature above shutdown threshold under load.",
			Causes:      []string{"Low coolant level", "Blocked radiator", "Failed thermostat", "Slipping fan belt"},
			Solutions: []domain.Solution{
				{Text: "Allow engine to cool, then check coolant level and radiator airflow", Difficulty: "easy", TimeEstimate: "30 minutes"},
				{Text: "Test thermostat opening temperature and replace if stuck", Difficulty: "moderate", TimeEstimate: "2 hours", Parts: []string{"Thermostat", "Coolant"}},
			},
			Symptoms:       []string{"overheating", "steam", "temperature high", "shutdown"},
			SafetyWarnings: []string{"Never remove radiator cap when hot"},
			RelatedCodes:   []string{"IL-NT-230"},
		},
		{
			ID: "comap-il-nt-230", Code: "IL-NT-230", Brand: "ComAp", Model: "InteliLite IL-NT AMF25",
			Category: "Cooling System", Severity: domain.SeverityCritical,
			Title:       "Coolant Temperature Shutdown",
			Description: "Controller stopped the set on high coolant temperature input.",
			Causes:      []string{"Cooling system failure", "Sensor calibration drift"},
			Solutions: []domain.Solution{
				{Text: "Resolve the cooling fault before reset; verify sensor against a thermometer", Difficulty: "moderate", TimeEstimate: "1-2 hours"},
			},
			Symptoms:     []string{"overheating", "engine shutdown"},
			RelatedCodes: []string{"E1003"},
		},
		{
			ID: "smartgen-f101", Code: "F101", Brand: "SmartGen", Model: "HGM6100",
			Category: "Fuel System", Severity: domain.SeverityWarning,
			Title:       "Fuel Level Low",
			Description: "Fuel tank level below the configured warning threshold.",
			Causes:      []string{"Tank running empty", "Float sender stuck"},
			Solutions: []domain.Solution{
				{Text: "Refuel and bleed air from the fuel lines if the engine stalled", Difficulty: "easy", TimeEstimate: "30 minutes"},
			},
			Symptoms: []string{"won't start", "stalls", "fuel warning"},
		},
		{
			ID: "cummins-e1010", Code: "E1010", Brand: "Cummins", Model: "All Models",
			Category: "Starting System", Severity: domain.SeverityWarning,
			Title:       "Fail To Start",
			Description: "Engine did not reach crank disconnect speed within the configured attempts.",
			Causes:      []string{"Weak battery", "Air in fuel", "Faulty starter motor", "Fuel solenoid not energising"},
			Solutions: []domain.Solution{
				{Text: "Measure battery voltage during crank; charge or replace below 9.5V", Difficulty: "easy", TimeEstimate: "20 minutes", Tools: []string{"Multimeter"}},
				{Text: "Bleed the fuel system and check the stop solenoid wiring", Difficulty: "moderate", TimeEstimate: "1 hour"},
			},
			Symptoms: []string{"won't start", "cranks but", "no response"},
		},
		{
			ID: "powerwizard-v101", Code: "V101", Brand: "CAT PowerWizard", Model: "PowerWizard 2.0",
			Category: "Electrical", Severity: domain.SeverityWarning,
			Title:       "Generator Under Voltage",
			Description: "Output voltage below nominal band while running on load.",
			Causes:      []string{"AVR failure", "Loss of excitation", "Overload"},
			Solutions: []domain.Solution{
				{Text: "Measure output voltage at the terminals with loads disconnected", Difficulty: "advanced", TimeEstimate: "2 hours", Tools: []string{"Multimeter"}},
				{Text: "Check AVR settings and sensing wiring; replace AVR if unstable", Difficulty: "advanced", TimeEstimate: "2-4 hours", Parts: []string{"AVR"}},
			},
			Symptoms:       []string{"voltage", "fluctuating", "no output"},
			SafetyWarnings: []string{"Generator produces lethal voltages; isolate before electrical work"},
		},
		{
			ID: "woodward-t101", Code: "T101", Brand: "Woodward", Model: "EasyGen 3000",
			Category: "Turbo/Air Intake", Severity: domain.SeverityWarning,
			Title:       "Turbo Boost Pressure Low",
			Description: "Charge air pressure below expected value for the measured load.",
			Causes:      []string{"Boost leak", "Dirty air filter", "Wastegate stuck open"},
			Solutions: []domain.Solution{
				{Text: "Inspect charge air piping and clamps for leaks", Difficulty: "moderate", TimeEstimate: "1-2 hours"},
			},
			Symptoms: []string{"low power", "black smoke", "sluggish"},
		},
		{
			ID: "deepsea-g102", Code: "G102", Brand: "DeepSea", Model: "DSE 8610",
			Category: "Electrical", Severity: domain.SeverityInfo,
			Title:       "Battery Charger Failure",
			Description: "Auxiliary charger output not detected while mains present.",
			Causes:      []string{"Charger fuse blown", "Charger unit failure"},
			Solutions: []domain.Solution{
				{Text: "Check the charger fuse and DC output with a multimeter", Difficulty: "easy", TimeEstimate: "20 minutes", Tools: []string{"Multimeter"}},
			},
			Symptoms: []string{"battery", "charging", "flat battery"},
		},
		{
			ID: "datakom-ex101", Code: "EX101", Brand: "Datakom", Model: "All Models",
			Category: "Exhaust/Emissions", Severity: domain.SeverityInfo,
			Title:       "Exhaust Temperature High",
			Description: "Exhaust gas temperature above advisory threshold.",
			Causes:      []string{"Overload", "Injector fouling", "Restricted exhaust"},
			Solutions: []domain.Solution{
				{Text: "Reduce load and inspect exhaust backpressure", Difficulty: "moderate", TimeEstimate: "1 hour"},
			},
			Symptoms: []string{"exhaust", "smell", "derated"},
		},
	}
}

// SeedSource is the built-in corpus as a Source.
func SeedSource() Source { return StaticSource(SeedRecords()) }
