// Package models defines the core domain models for kotxea.
//
// # Models
//
//   - Trip: one shared ride, the only entity persisted as source of truth
//   - Transfer: a payment instruction produced by the settlement
//   - Settlement: the transfers plus the money balances they settle
//
// Participants are identified by plain name strings. The set of valid names is
// a closed roster supplied at startup; it is not stored alongside the trips.
//
// # Persistence
//
// Trips are stored as a JSON array using the historical Spanish field names
// (fecha, conductor, pasajeros, dinero) so existing datos.json files keep
// loading. Balances and transfers are always recomputed from the trips and are
// never read back from storage.
package models
