package base

// MaxSlotChainSize caps how many distinct resources the registry will
// build chains for, guarding against unbounded memory growth when a
// caller names resources dynamically (e.g. from request paths).
// CtSph.java enforces the same cap (RollingNodesManager / ClusterBuilderSlot
// both bail out past it) to keep a runaway caller from exhausting memory.
const MaxSlotChainSize = 6000
