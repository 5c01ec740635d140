package domain

// MaxResultLimit caps any configured per-collection result limit.
const MaxResultLimit = 100
