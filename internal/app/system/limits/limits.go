// Package limits holds request body size limits.
package limits

// MaxPlannerFormSize caps planner step submissions. A full draft is a few
// dozen short IDs.
const MaxPlannerFormSize = 64 << 10 // 64 KB
