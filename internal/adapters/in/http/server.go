// Package http provides the inbound REST adapter. Handlers translate HTTP
// requests into commands and queries and map domain errors onto HTTP statuses.
package http

import (
	"net/http"

	"freightops/internal/core/application/usecases/commands"
	"freightops/internal/core/application/usecases/queries"
	"freightops/internal/core/domain/model/flow"
	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/core/domain/model/transaction"
	"freightops/internal/core/domain/services"
	"freightops/internal/core/ports"
	"freightops/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createTransactionHandler   commands.CreateTransactionCommandHandler
	executeStepHandler         commands.ExecuteStepCommandHandler
	completeTransactionHandler commands.CompleteTransactionCommandHandler
	deleteTransactionHandler   commands.DeleteTransactionCommandHandler

	// Query handlers
	getTransactionsHandler      queries.GetTransactionsQueryHandler
	getAvailablePackagesHandler queries.GetAvailablePackagesQueryHandler

	flowRegistry ports.FlowRegistry
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createTransactionHandler commands.CreateTransactionCommandHandler,
	executeStepHandler commands.ExecuteStepCommandHandler,
	completeTransactionHandler commands.CompleteTransactionCommandHandler,
	deleteTransactionHandler commands.DeleteTransactionCommandHandler,
	getTransactionsHandler queries.GetTransactionsQueryHandler,
	getAvailablePackagesHandler queries.GetAvailablePackagesQueryHandler,
	flowRegistry ports.FlowRegistry,
) *Server {
	return &Server{
		createTransactionHandler:    createTransactionHandler,
		executeStepHandler:          executeStepHandler,
		completeTransactionHandler:  completeTransactionHandler,
		deleteTransactionHandler:    deleteTransactionHandler,
		getTransactionsHandler:      getTransactionsHandler,
		getAvailablePackagesHandler: getAvailablePackagesHandler,
		flowRegistry:                flowRegistry,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/transactions", s.CreateTransaction)
	api.GET("/transactions", s.GetTransactions)
	api.POST("/transactions/:transactionId/steps/:stepCode", s.ExecuteStep)
	api.POST("/transactions/:transactionId/completion", s.CompleteTransaction)
	api.DELETE("/transactions/:transactionId", s.DeleteTransaction)
	api.GET("/packing-lists/:packingListId/packages", s.GetPackages)
}

// CreateTransaction handles POST /api/v1/transactions.
func (s *Server) CreateTransaction(ctx echo.Context) error {
	var body NewTransaction
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	packingListID, err := kernel.UUIDFromString(body.PackingListId)
	if err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("packingListId", err))
	}

	partyType, err := transaction.PartyTypeFromString(body.PartyType)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewCreateTransactionCommand(
		kernel.NewUUID(), packingListID, body.Flow, body.PartyName, partyType)
	if err != nil {
		return errorResponse(ctx, err)
	}

	created, err := s.createTransactionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toTransaction(created))
}

// GetTransactions handles GET /api/v1/transactions.
func (s *Server) GetTransactions(ctx echo.Context) error {
	params := ctx.QueryParams()

	var packingListIDParam, flowParam, statusParam, orderParam *string
	var pageParam, pageSizeParam *int

	if err := runtime.BindQueryParameter("form", true, false, "packingListId", params, &packingListIDParam); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("packingListId", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "flow", params, &flowParam); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("flow", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "status", params, &statusParam); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("status", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "order", params, &orderParam); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("order", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", params, &pageParam); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("page", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "pageSize", params, &pageSizeParam); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("pageSize", err))
	}

	var packingListID *kernel.UUID
	if packingListIDParam != nil {
		id, err := kernel.UUIDFromString(*packingListIDParam)
		if err != nil {
			return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("packingListId", err))
		}
		packingListID = &id
	}

	var status *transaction.Status
	if statusParam != nil {
		parsed, err := transaction.StatusFromString(*statusParam)
		if err != nil {
			return errorResponse(ctx, err)
		}
		status = &parsed
	}

	page := defaultPage
	if pageParam != nil {
		page = *pageParam
	}
	pageSize := defaultPageSize
	if pageSizeParam != nil {
		pageSize = *pageSizeParam
	}
	order := queries.OrderDesc
	if orderParam != nil {
		order = *orderParam
	}

	query, err := queries.NewGetTransactionsQuery(packingListID, flowParam, status, page, pageSize, order)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.getTransactionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	items := make([]Transaction, len(result.Items))
	for i, item := range result.Items {
		items[i] = Transaction{
			Id:            item.ID.String(),
			Code:          item.Code,
			PackingListId: item.PackingListID.String(),
			Flow:          item.FlowName,
			PartyName:     item.PartyName,
			PartyType:     item.PartyType,
			Status:        item.Status,
			PickedCount:   item.PickedCount,
			CreatedAt:     item.CreatedAt,
			EndedAt:       item.EndedAt,
		}
	}

	return ctx.JSON(http.StatusOK, TransactionPage{Items: items, Total: result.Total})
}

// ExecuteStep handles POST /api/v1/transactions/{transactionId}/steps/{stepCode}.
func (s *Server) ExecuteStep(ctx echo.Context) error {
	transactionID, err := kernel.UUIDFromString(ctx.Param("transactionId"))
	if err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("transactionId", err))
	}
	stepCode := ctx.Param("stepCode")

	var body ExecuteStep
	if err = ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	packageIDs := make([]kernel.UUID, 0, len(body.PackageIds))
	for _, raw := range body.PackageIds {
		id, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("packageIds", idErr))
		}
		packageIDs = append(packageIDs, id)
	}

	var locationID *kernel.UUID
	if body.LocationId != nil {
		id, idErr := kernel.UUIDFromString(*body.LocationId)
		if idErr != nil {
			return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("locationId", idErr))
		}
		locationID = &id
	}

	cmd, err := commands.NewExecuteStepCommand(
		transactionID, stepCode, packageIDs, locationID, body.TruckNo, body.AttachmentRefs, body.BestEffort)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.executeStepHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toStepResult(result))
}

// CompleteTransaction handles POST /api/v1/transactions/{transactionId}/completion.
func (s *Server) CompleteTransaction(ctx echo.Context) error {
	transactionID, err := kernel.UUIDFromString(ctx.Param("transactionId"))
	if err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("transactionId", err))
	}

	cmd, err := commands.NewCompleteTransactionCommand(transactionID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.completeTransactionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeleteTransaction handles DELETE /api/v1/transactions/{transactionId}.
func (s *Server) DeleteTransaction(ctx echo.Context) error {
	transactionID, err := kernel.UUIDFromString(ctx.Param("transactionId"))
	if err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("transactionId", err))
	}

	cmd, err := commands.NewDeleteTransactionCommand(transactionID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.deleteTransactionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetPackages handles GET /api/v1/packing-lists/{packingListId}/packages.
// With a flow query parameter, each package also carries the code of the step
// it is currently eligible for in that flow.
func (s *Server) GetPackages(ctx echo.Context) error {
	packingListID, err := kernel.UUIDFromString(ctx.Param("packingListId"))
	if err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("packingListId", err))
	}

	var statusParam, flowParam *string
	if err = runtime.BindQueryParameter(
		"form", true, false, "status", ctx.QueryParams(), &statusParam); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("status", err))
	}
	if err = runtime.BindQueryParameter(
		"form", true, false, "flow", ctx.QueryParams(), &flowParam); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("flow", err))
	}

	var status flow.Status
	if statusParam != nil {
		status = flow.Status(*statusParam)
	}

	var activeFlow *flow.Flow
	if flowParam != nil {
		f, flowErr := s.flowRegistry.Get(*flowParam)
		if flowErr != nil {
			return errorResponse(ctx, flowErr)
		}
		activeFlow = &f
	}

	query, err := queries.NewGetAvailablePackagesQuery(packingListID, status)
	if err != nil {
		return errorResponse(ctx, err)
	}

	packages, err := s.getAvailablePackagesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]Package, len(packages))
	for i, pkg := range packages {
		var storageLocationID *string
		if pkg.StorageLocationID != nil {
			id := pkg.StorageLocationID.String()
			storageLocationID = &id
		}

		response[i] = Package{
			Id:                pkg.ID.String(),
			PackageNo:         pkg.PackageNo,
			PositionStatus:    pkg.PositionStatus,
			ConditionStatus:   pkg.ConditionStatus,
			RegulatoryStatus:  pkg.RegulatoryStatus,
			StorageLocationId: storageLocationID,
			ActiveStepCode:    activeStepCode(activeFlow, pkg.PositionStatus),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// activeStepCode resolves the step a package at the given position status is
// eligible for. Packages at the flow's terminal status have none.
func activeStepCode(f *flow.Flow, positionStatus string) *string {
	if f == nil {
		return nil
	}

	step, ok := f.ActiveStepFor(flow.Status(positionStatus))
	if !ok {
		return nil
	}

	code := step.Code()
	return &code
}

func toTransaction(txn *transaction.PackageTransaction) Transaction {
	return Transaction{
		Id:            txn.ID().String(),
		Code:          txn.Code(),
		PackingListId: txn.PackingListID().String(),
		Flow:          txn.FlowName(),
		PartyName:     txn.PartyName(),
		PartyType:     txn.PartyType().String(),
		Status:        txn.Status().String(),
		PickedCount:   txn.PickedCount(),
		CreatedAt:     txn.CreatedAt(),
		EndedAt:       txn.EndedAt(),
	}
}

func toStepResult(result services.StepResult) StepResult {
	applied := make([]string, len(result.Applied))
	for i, id := range result.Applied {
		applied[i] = id.String()
	}

	failed := make([]StepFailure, 0, len(result.Failed))
	for _, failure := range result.Failed {
		failed = append(failed, StepFailure{
			PackageId: failure.PackageID.String(),
			Reason:    failure.Cause.Error(),
		})
	}

	return StepResult{
		StepCode: result.StepCode,
		Applied:  applied,
		Failed:   failed,
	}
}
