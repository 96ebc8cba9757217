package exceptions

var ErrTransactionTimeout = New(KindTimeout, "transaction could not complete in time")
