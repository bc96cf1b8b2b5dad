package languageServer

import (
	"context"
	"encoding/json"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/uxnkit/taltools/assembler"
)

var documentMap = make(map[string]TextDocumentItem) // map from uri to document

// assembleAndReportDiagnostics reassembles a document and collects its
// diagnostics. Assembly stops at the first error, so the list holds either
// that error or the warnings of a clean run. The last good result is kept on
// the document for hover.
func assembleAndReportDiagnostics(uri DocumentUri) []assembler.Diagnostic {
	doc := documentMap[string(uri)]

	diagnostics := make([]assembler.Diagnostic, 0)
	result, err := assembler.Assemble(doc.Text)
	if err != nil {
		diagnostics = append(diagnostics, err.Diagnostic())
	} else {
		diagnostics = append(diagnostics, result.Warnings...)
		doc.lastAssembledResult = result
	}
	documentMap[string(uri)] = doc
	return diagnostics
}

func documentOpenNotification(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	// parse req params as DidOpenTextDocumentParams
	// add document to documents map
	decodedParams := DidOpenTextDocumentParams{}
	err := json.Unmarshal(*req.Params, &decodedParams)
	if err != nil {
		rpcErr := jsonrpc2.Error{}
		rpcErr.SetError("invalid parameters")
		conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
		return
	}

	documentMap[string(decodedParams.TextDocument.URI)] = decodedParams.TextDocument

	diagnostics := assembleAndReportDiagnostics(decodedParams.TextDocument.URI)
	conn.Notify(context.Background(), "textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         decodedParams.TextDocument.URI,
		Diagnostics: diagnostics,
	})
}

func documentCloseNotification(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	// parse req params as DidCloseTextDocumentParams
	// remove document from documents map
	decodedParams := DidCloseTextDocumentParams{}
	err := json.Unmarshal(*req.Params, &decodedParams)
	if err != nil {
		rpcErr := jsonrpc2.Error{}
		rpcErr.SetError("invalid parameters")
		conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
		return
	}

	delete(documentMap, string(decodedParams.TextDocument.URI))
}

func documentChangeNotification(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	// parse req params as DidChangeTextDocumentParams
	// update document in documents map
	decodedParams := DidChangeTextDocumentParams{}
	err := json.Unmarshal(*req.Params, &decodedParams)
	if err != nil {
		rpcErr := jsonrpc2.Error{}
		rpcErr.SetError("invalid parameters")
		conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
		return
	}

	doc := documentMap[string(decodedParams.TextDocument.URI)]
	doc.Text = decodedParams.ContentChanges[0].Text
	doc.Version = decodedParams.TextDocument.Version
	documentMap[string(decodedParams.TextDocument.URI)] = doc

	diagnostics := assembleAndReportDiagnostics(decodedParams.TextDocument.URI)
	conn.Notify(context.Background(), "textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         decodedParams.TextDocument.URI,
		Version:     doc.Version,
		Diagnostics: diagnostics,
	})
}

func documentDiagnostics(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	// parse req params as DocumentDiagnosticsParams
	// assemble document and return diagnostics
	decodedParams := DocumentDiagnosticsParams{}
	err := json.Unmarshal(*req.Params, &decodedParams)
	if err != nil {
		rpcErr := jsonrpc2.Error{}
		rpcErr.SetError("invalid parameters")
		conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
		return
	}

	diagnostics := assembleAndReportDiagnostics(decodedParams.TextDocument.URI)
	conn.Reply(context.Background(), req.ID, DocumentDiagnosticsReport{
		Kind:  "full",
		Items: diagnostics,
	})
}
