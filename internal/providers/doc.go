// Package providers defines the contract every external book catalog adapter
// satisfies.
//
// Adapters translate a Query into a catalog-specific HTTP request, execute it
// through the fetch package's retry executor, and map the JSON envelope into
// metadata.Record values. A well-formed response with no matches yields an
// empty slice and a nil error; transport and protocol failures surface as
// *fetch.Error so callers can inspect the failure kind.
package providers
