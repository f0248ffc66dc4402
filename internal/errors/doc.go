// Package errors provides structured errors for the rpg-rewards project.
//
// Errors carry a Code, a human readable Message, an optional Cause and
// free-form metadata:
//
//	err := errors.NotFound("loot table not found").
//	    WithMeta("table_id", tableID)
//
// Wrapping keeps the code of the wrapped error:
//
//	if err := repo.Set(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to store proficiency xp")
//	}
//
// Checking:
//
//	if errors.IsNotFound(err) {
//	    // first grant for this player
//	}
//
// # Validation
//
// Config and content validation collect every field problem before failing:
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Repository == nil {
//	    vb.RequiredField("Repository")
//	}
//	return vb.Build()
//
// # Layer guidelines
//
// Repositories return NotFound / InvalidArgument and wrap storage failures.
// Orchestrators validate input and return FailedPrecondition when content is
// misconfigured. The pure engines never return errors for bad content: they
// log and fall back to a neutral value (zero cost, level 1, no drops).
// The CLI maps codes to process exit statuses with Code.ExitCode.
package errors
