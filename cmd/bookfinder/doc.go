// Command bookfinder searches Google Books and OpenLibrary for book metadata
// and keeps a local library of accepted records.
//
// Subcommands:
//
//	search   query both catalogs and print a deduplicated, ranked table
//	library  list, show, remove, export, or import stored books
//	config   create or validate the TOML configuration
//	doctor   check catalog connectivity and library paths
//
// Credentials are read from the configuration file, the environment, or a
// .env file in the working directory.
package main
