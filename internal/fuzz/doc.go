// Package fuzztests houses Go fuzz harnesses for the template pipeline
// (source -> lexer -> tree -> seq -> render). They guard against panics,
// hangs and span corruption on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через FileSet, лексер, сборку
// дерева и раскрытие.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
