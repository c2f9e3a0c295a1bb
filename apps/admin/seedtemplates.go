package main

import (
	"context"
	"fmt"

	"github.com/shuletech/udahili/core/admission"
	"github.com/shuletech/udahili/core/catalog"
)

// standard per-class fee templates; amounts in minor currency units
var seedClasses = []struct {
	classID string
	tuition int64
}{
	{"class-1", 3000000},
	{"class-2", 3200000},
	{"class-3", 3400000},
	{"class-4", 3600000},
	{"class-5", 3800000},
}

func (cli *commandLine) seedTemplates() error {
	ctx := context.Background()
	for _, c := range seedClasses {
		existing, err := cli.catalogSvc.GetTemplatesForClass(ctx, c.classID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}

		nt := catalog.NewFeeTemplate{
			Name:         "Standard " + c.classID,
			ClassID:      c.classID,
			AcademicYear: "2026-2027",
			Components: []admission.FeeComponent{
				{Name: "Tuition", Type: "tuition", Frequency: "annual", Amount: c.tuition, IsActive: true},
				{Name: "Admission Fee", Type: "admission", Frequency: "one_time", Amount: 500000, IsActive: true},
				{Name: "Transport", Type: "transport", Frequency: "monthly", Amount: 150000, IsActive: false, IsOptional: true},
			},
		}
		if _, err := cli.catalogSvc.Create(ctx, nt); err != nil {
			return err
		}
		fmt.Printf("seeded fee template for %s\n", c.classID)
	}
	return nil
}
