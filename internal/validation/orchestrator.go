package validation

import (
	"fmt"
	"strings"

	"github.com/hyperengineering/composer/internal/types"
)

// EntityResult pairs one entity with its individual validation result.
// The UI uses these to show issues grouped by entity.
type EntityResult struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Result
}

// Summary aggregates issue counts. EntitiesWithErrors and
// EntitiesWithWarnings count distinct entity IDs, not issues.
type Summary struct {
	TotalErrors          int `json:"total_errors"`
	TotalWarnings        int `json:"total_warnings"`
	EntitiesWithErrors   int `json:"entities_with_errors"`
	EntitiesWithWarnings int `json:"entities_with_warnings"`
}

// ConfigResult is the outcome of validating the full configuration.
type ConfigResult struct {
	Valid         bool           `json:"valid"`
	Errors        []Issue        `json:"errors"`
	Warnings      []Issue        `json:"warnings"`
	EntityResults []EntityResult `json:"entity_results"`
	Summary       Summary        `json:"summary"`
}

// ValidateConfig runs every validation pass over the full configuration
// and merges the results. The per-entity results repeat work done by the
// bulk passes; both outputs are kept because the aggregate list and the
// per-entity grouping have separate consumers.
func ValidateConfig(cfg *types.TenantConfig) ConfigResult {
	var errors, warnings []Issue

	passes := []Result{
		ValidateForms(cfg.Forms, cfg.Programs),
		ValidateCTAs(cfg.CTAs, cfg.Forms),
		ValidateBranches(cfg.Branches, cfg.CTAs),
		ValidateRelationships(cfg),
		ValidateRuntimeBehavior(cfg),
	}
	for _, r := range passes {
		errors = append(errors, r.Errors...)
		warnings = append(warnings, r.Warnings...)
	}

	var entityResults []EntityResult
	for _, id := range sortedKeys(cfg.Forms) {
		entityResults = append(entityResults, EntityResult{
			EntityType: string(types.EntityForm),
			EntityID:   id,
			Result:     ValidateForm(id, cfg.Forms[id], cfg.Programs),
		})
	}
	for _, id := range sortedKeys(cfg.CTAs) {
		entityResults = append(entityResults, EntityResult{
			EntityType: string(types.EntityCTA),
			EntityID:   id,
			Result:     ValidateCTA(id, cfg.CTAs[id], cfg.Forms),
		})
	}
	for _, id := range sortedKeys(cfg.Branches) {
		entityResults = append(entityResults, EntityResult{
			EntityType: string(types.EntityBranch),
			EntityID:   id,
			Result:     ValidateBranch(id, cfg.Branches[id], cfg.CTAs, cfg.Branches),
		})
	}

	return ConfigResult{
		Valid:         len(errors) == 0,
		Errors:        errors,
		Warnings:      warnings,
		EntityResults: entityResults,
		Summary: Summary{
			TotalErrors:          len(errors),
			TotalWarnings:        len(warnings),
			EntitiesWithErrors:   distinctEntityCount(errors),
			EntitiesWithWarnings: distinctEntityCount(warnings),
		},
	}
}

// distinctEntityCount returns the number of distinct non-empty entity IDs
// across the issues. An entity with three issues counts once.
func distinctEntityCount(issues []Issue) int {
	seen := make(map[string]bool)
	for _, issue := range issues {
		if issue.EntityID != "" {
			seen[issue.EntityID] = true
		}
	}
	return len(seen)
}

// DeploymentStats summarizes the configuration being deployed.
type DeploymentStats struct {
	Programs            int `json:"programs"`
	Forms               int `json:"forms"`
	CTAs                int `json:"ctas"`
	Branches            int `json:"branches"`
	FormsWithProgram    int `json:"forms_with_program"`
	FormsWithoutProgram int `json:"forms_without_program"`
}

// DeploymentChecklist is the deployment-oriented validation result.
type DeploymentChecklist struct {
	Ready          bool            `json:"ready"`
	BlockingErrors []Issue         `json:"blocking_errors"`
	Warnings       []Issue         `json:"warnings"`
	Stats          DeploymentStats `json:"stats"`
	Message        string          `json:"message"`
}

// ValidatePreDeployment validates the full configuration and classifies
// every error as deployment-blocking or not. Ready is true iff no
// blocking errors exist.
func ValidatePreDeployment(cfg *types.TenantConfig) DeploymentChecklist {
	result := ValidateConfig(cfg)

	var blocking []Issue
	for _, issue := range result.Errors {
		if IsDeploymentBlocking(issue) {
			blocking = append(blocking, issue)
		}
	}

	return DeploymentChecklist{
		Ready:          len(blocking) == 0,
		BlockingErrors: blocking,
		Warnings:       result.Warnings,
		Stats:          deploymentStats(cfg),
	}
}

// IsDeploymentBlocking classifies an error for the deployment checklist.
//
// The field table below is consulted first, but the fallthrough returns
// true, so in practice every error blocks deployment.
// TODO: product decision pending on whether informational reference errors
// (orphan-adjacent cases) should pass through as non-blocking; until then
// the table has no observable effect and must not be relied on.
func IsDeploymentBlocking(issue Issue) bool {
	switch issue.EntityType {
	case entityRelationship:
		return true
	case string(types.EntityCTA):
		switch issue.Field {
		case "form_id", "url", "query", "prompt":
			return true
		}
	case string(types.EntityForm):
		switch issue.Field {
		case "program_id", "fields":
			return true
		}
	case string(types.EntityBranch):
		if strings.Contains(issue.Field, "available_ctas.primary") {
			return true
		}
	}
	if strings.Contains(strings.ToLower(issue.Message), "circular") {
		return true
	}
	return true
}

func deploymentStats(cfg *types.TenantConfig) DeploymentStats {
	stats := DeploymentStats{
		Programs: len(cfg.Programs),
		Forms:    len(cfg.Forms),
		CTAs:     len(cfg.CTAs),
		Branches: len(cfg.Branches),
	}
	for _, form := range cfg.Forms {
		if form.ProgramID != "" {
			stats.FormsWithProgram++
		} else {
			stats.FormsWithoutProgram++
		}
	}
	return stats
}

// GenerateDeploymentChecklist runs ValidatePreDeployment and renders the
// multi-section human-readable message consumed by the deploy flow.
func GenerateDeploymentChecklist(cfg *types.TenantConfig) DeploymentChecklist {
	checklist := ValidatePreDeployment(cfg)

	var b strings.Builder
	if checklist.Ready {
		b.WriteString("✅ Configuration is ready to deploy.\n")
	} else {
		b.WriteString(fmt.Sprintf("❌ Configuration is not ready to deploy: %d blocking error(s).\n", len(checklist.BlockingErrors)))
		for _, issue := range checklist.BlockingErrors {
			b.WriteString(fmt.Sprintf("  - [%s/%s] %s\n", issue.EntityType, issue.EntityID, issue.Message))
		}
	}

	b.WriteString("\nContents:\n")
	b.WriteString(fmt.Sprintf("  Programs: %d\n", checklist.Stats.Programs))
	b.WriteString(fmt.Sprintf("  Forms: %d (%d assigned to a program, %d unassigned)\n",
		checklist.Stats.Forms, checklist.Stats.FormsWithProgram, checklist.Stats.FormsWithoutProgram))
	b.WriteString(fmt.Sprintf("  CTAs: %d\n", checklist.Stats.CTAs))
	b.WriteString(fmt.Sprintf("  Branches: %d\n", checklist.Stats.Branches))

	if len(checklist.Warnings) > 0 {
		b.WriteString(fmt.Sprintf("\nWarnings (%d):\n", len(checklist.Warnings)))
		for _, issue := range checklist.Warnings {
			b.WriteString(fmt.Sprintf("  - [%s/%s] %s\n", issue.EntityType, issue.EntityID, issue.Message))
		}
	}

	checklist.Message = b.String()
	return checklist
}
