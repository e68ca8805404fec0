package engine

import (
	"github.com/Very1Fake/sdp.wildberries/internal/domain"
)

// actionKind — решение цикла после одного обмена.
type actionKind int

const (
	// actContinue — под-шаг завершён, перейти к следующему.
	actContinue actionKind = iota

	// actJump — перескочить на указанный под-шаг текущего шага.
	actJump

	// actMove — перейти на следующий шаг (под-шаг сбрасывается в 0).
	actMove

	// actError — восстановимая ошибка: цикл останавливается,
	// оператор может перезапустить задачу.
	actError

	// actComplete — терминальный успех.
	actComplete

	// actFailed — терминальный провал.
	actFailed
)

// action — результат выполнения одного под-шага.
type action struct {
	kind actionKind
	jump int
	step domain.Step
	note string
}

func cont() action                                { return action{kind: actContinue} }
func jumpTo(substep int) action                   { return action{kind: actJump, jump: substep} }
func moveTo(step domain.Step, note string) action { return action{kind: actMove, step: step, note: note} }
func errorAct(note string) action                 { return action{kind: actError, note: note} }
func completeAct(note string) action              { return action{kind: actComplete, note: note} }
func failedAct(note string) action                { return action{kind: actFailed, note: note} }
