package bot

import "github.com/m3rciful/artliftbot/core/telegram/state"

// Conversation states.
const (
	stateAwaitingQuestion state.State = "awaiting_question"
	stateAwaitingAnswer   state.State = "awaiting_answer"
	stateAwaitingTemplate state.State = "awaiting_template_content"
)

// Temp-data keys used alongside the states.
const (
	tempQuestionID  = "question_id"
	tempTemplateKey = "template_key"
)

// Callback uniques.
const (
	callbackMainMenu    = "main_menu"
	callbackFillForm    = "fill_form"
	callbackFormFilled  = "application_filled"
	callbackAskQuestion = "user_question"
	callbackFAQ         = "faq"
	callbackCancel      = "cancel"

	callbackAdminPanel     = "adm_panel"
	callbackAdminApps      = "adm_apps"
	callbackAdminApprove   = "adm_approve"
	callbackAdminReject    = "adm_reject"
	callbackAdminStats     = "adm_stats"
	callbackAdminQuestions = "adm_questions"
	callbackAdminQView     = "adm_q_view"
	callbackAdminQAnswer   = "adm_q_answer"
	callbackAdminTpls      = "adm_tpls"
	callbackAdminTplView   = "adm_tpl_view"
	callbackAdminTplEdit   = "adm_tpl_edit"
	callbackAdminTplHist   = "adm_tpl_hist"
	callbackAdminTplRest   = "adm_tpl_restore"
	callbackAdminTplDrop   = "adm_tpl_drop"
)
