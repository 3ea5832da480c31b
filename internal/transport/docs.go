// package transport contains implementations to requirements on *message syntaxes*
// defined by http related RFCs.
//
// HTTP/1.1 message syntax is defined by RFC9112, with semantics from
// RFC9110. net/http components are reused on the "semantics" part
// ([net/http.Header], etc.), the wire layer is implemented here.
//
// the package owns the binding between a parsed response body and the
// connection lease it streams from: consuming the body to EOF, or
// closing it early, is what settles the lease's disposition.
package transport
