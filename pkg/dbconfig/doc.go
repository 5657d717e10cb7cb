/*
Package dbconfig holds the process-wide settings of the database helper
library.

# Overview

There are two settings:
  - databaseQueryException: the error type used for failed queries. It must be
    dberr.QueryError or a type that embeds it. Default: dberr.QueryError.
  - hookPrefix: a string prepended to hook names. Default: "".

The rest of the library reads them when a call happens, not at load time.

# Shared Instance

One Settings value is shared by the whole process. Current returns it and
creates a Store with the defaults on first use:

	dbconfig.Current().SetHookPrefix("acme_")

Instance is the single entry point for both lookup and replacement. Passing
nil resolves the shared instance; passing any Settings replaces it:

	type TenantSettings struct {
	    *dbconfig.Store
	    Tenant string
	}

	s, err := dbconfig.Instance(&TenantSettings{Store: dbconfig.NewStore(), Tenant: "acme"})

Replacement is total. The old instance and its values are dropped. Values
that do not implement Settings are rejected with ErrInvalidArgument.

# Gateway

A Gateway routes calls by operation name. Only the four names in the
allowlist are routed (see Ops); anything else fails with ErrUnknownOperation:

	v, err := dbconfig.Call(s, "getHookPrefix")
	_, err = dbconfig.CallStatic("setHookPrefix", "acme_")
	_, err = dbconfig.CallStatic("dropTables") // ErrUnknownOperation

CallStatic resolves the shared instance first. The package-level helpers
HookPrefix, SetHookPrefix, DatabaseQueryException and SetDatabaseQueryException
are CallStatic with the matching name.

# Query Error Types

Type identifiers are reflect.Type values:

	type DeadlockError struct {
	    dberr.QueryError
	}

	err := dbconfig.SetDatabaseQueryException(reflect.TypeFor[*DeadlockError]())

No value is created to check the type. Consumers build the configured error
with dberr.New(dbconfig.DatabaseQueryException(), query, cause).

# Settings Files

LoadFile applies a YAML or JSON file to a Settings:

	hook_prefix: acme_
	database_query_exception: "*app.DeadlockError"

Type names must be registered first with RegisterQueryErrorType. A file
shared with other components can nest the settings under a "dbconfig" key.
A Watcher reapplies the file whenever it changes, retrying read and parse
failures per WithReloadRetry:

	w := dbconfig.NewWatcher("/etc/app/dbconfig.yaml")
	if err := w.Start(ctx); err != nil {
	    return err
	}
	defer w.Close()

# Observability

Configure sets the slog logger, OTel metrics recorder and span manager used
by the package. Logging is off until a logger is supplied; metrics and spans
go to the global OTel providers.

# Thread Safety

All functions and Store methods are safe for concurrent use.
*/
package dbconfig
